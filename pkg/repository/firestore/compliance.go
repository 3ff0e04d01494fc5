package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type complianceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newComplianceRepository(client *firestore.Client) *complianceRepository {
	return &complianceRepository{client: client}
}

func (r *complianceRepository) collection(yachtID string) *firestore.CollectionRef {
	return r.client.Collection(yachtsCollection(r.collectionPrefix)).Doc(yachtID).Collection("compliance_warnings")
}

func (r *complianceRepository) Create(ctx context.Context, yachtID string, warning *model.ComplianceWarning) (*model.ComplianceWarning, error) {
	nextID, err := nextCounterValue(ctx, r.client, r.collectionPrefix, yachtID, "compliance_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next compliance warning ID")
	}

	now := time.Now().UTC()
	created := *warning
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection(yachtID).Doc(docID(created.ID)).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create compliance warning", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *complianceRepository) Get(ctx context.Context, yachtID string, id int64) (*model.ComplianceWarning, error) {
	docSnap, err := r.collection(yachtID).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "compliance warning not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get compliance warning", goerr.V("id", id))
	}

	var w model.ComplianceWarning
	if err := docSnap.DataTo(&w); err != nil {
		return nil, goerr.Wrap(err, "failed to decode compliance warning", goerr.V("id", id))
	}

	return &w, nil
}

func (r *complianceRepository) List(ctx context.Context, yachtID string) ([]*model.ComplianceWarning, error) {
	iter := r.collection(yachtID).Documents(ctx)
	defer iter.Stop()

	warnings := make([]*model.ComplianceWarning, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate compliance warnings")
		}

		var w model.ComplianceWarning
		if err := docSnap.DataTo(&w); err != nil {
			return nil, goerr.Wrap(err, "failed to decode compliance warning", goerr.V("doc_id", docSnap.Ref.ID))
		}

		warnings = append(warnings, &w)
	}

	return warnings, nil
}

func (r *complianceRepository) Update(ctx context.Context, yachtID string, warning *model.ComplianceWarning) (*model.ComplianceWarning, error) {
	docRef := r.collection(yachtID).Doc(docID(warning.ID))

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "compliance warning not found", goerr.V("id", warning.ID))
		}
		return nil, goerr.Wrap(err, "failed to check compliance warning existence", goerr.V("id", warning.ID))
	}

	updated := *warning
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update compliance warning", goerr.V("id", warning.ID))
	}

	return &updated, nil
}
