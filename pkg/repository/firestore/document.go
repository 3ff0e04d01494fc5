package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type documentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{client: client}
}

func (r *documentRepository) collection(yachtID string) *firestore.CollectionRef {
	return r.client.Collection(yachtsCollection(r.collectionPrefix)).Doc(yachtID).Collection("documents")
}

func (r *documentRepository) Create(ctx context.Context, yachtID string, doc *model.Document) (*model.Document, error) {
	nextID, err := nextCounterValue(ctx, r.client, r.collectionPrefix, yachtID, "document_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next document ID")
	}

	created := *doc
	created.ID = nextID
	created.CreatedAt = time.Now().UTC()

	if _, err := r.collection(yachtID).Doc(docID(created.ID)).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create document", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *documentRepository) Get(ctx context.Context, yachtID string, id int64) (*model.Document, error) {
	docSnap, err := r.collection(yachtID).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var d model.Document
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
	}

	return &d, nil
}

func (r *documentRepository) List(ctx context.Context, yachtID string) ([]*model.Document, error) {
	iter := r.collection(yachtID).Documents(ctx)
	defer iter.Stop()

	docs := make([]*model.Document, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var d model.Document
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", docSnap.Ref.ID))
		}

		docs = append(docs, &d)
	}

	return docs, nil
}
