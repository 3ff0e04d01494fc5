package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type faultRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newFaultRepository(client *firestore.Client) *faultRepository {
	return &faultRepository{client: client}
}

func (r *faultRepository) collection(yachtID string) *firestore.CollectionRef {
	return r.client.Collection(yachtsCollection(r.collectionPrefix)).Doc(yachtID).Collection("faults")
}

func (r *faultRepository) Create(ctx context.Context, yachtID string, fault *model.Fault) (*model.Fault, error) {
	nextID, err := nextCounterValue(ctx, r.client, r.collectionPrefix, yachtID, "fault_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next fault ID")
	}

	now := time.Now().UTC()
	created := *fault
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection(yachtID).Doc(docID(created.ID)).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create fault", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *faultRepository) Get(ctx context.Context, yachtID string, id int64) (*model.Fault, error) {
	docSnap, err := r.collection(yachtID).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "fault not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get fault", goerr.V("id", id))
	}

	var f model.Fault
	if err := docSnap.DataTo(&f); err != nil {
		return nil, goerr.Wrap(err, "failed to decode fault", goerr.V("id", id))
	}

	return &f, nil
}

func (r *faultRepository) List(ctx context.Context, yachtID string) ([]*model.Fault, error) {
	iter := r.collection(yachtID).Documents(ctx)
	defer iter.Stop()

	faults := make([]*model.Fault, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate faults")
		}

		var f model.Fault
		if err := docSnap.DataTo(&f); err != nil {
			return nil, goerr.Wrap(err, "failed to decode fault", goerr.V("doc_id", docSnap.Ref.ID))
		}

		faults = append(faults, &f)
	}

	return faults, nil
}

func (r *faultRepository) Update(ctx context.Context, yachtID string, fault *model.Fault) (*model.Fault, error) {
	docRef := r.collection(yachtID).Doc(docID(fault.ID))

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "fault not found", goerr.V("id", fault.ID))
		}
		return nil, goerr.Wrap(err, "failed to check fault existence", goerr.V("id", fault.ID))
	}

	updated := *fault
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update fault", goerr.V("id", fault.ID))
	}

	return &updated, nil
}
