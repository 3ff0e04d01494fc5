package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type auditRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAuditRepository(client *firestore.Client) *auditRepository {
	return &auditRepository{client: client}
}

func (r *auditRepository) collection(yachtID string) *firestore.CollectionRef {
	return r.client.Collection(yachtsCollection(r.collectionPrefix)).Doc(yachtID).Collection("audit_records")
}

func (r *auditRepository) Put(ctx context.Context, yachtID string, record *model.AuditRecord) error {
	if record.ID == "" {
		return goerr.New("audit record ID is empty")
	}

	if _, err := r.collection(yachtID).Doc(record.ID).Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to put audit record", goerr.V("id", record.ID))
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, yachtID string) ([]*model.AuditRecord, error) {
	iter := r.collection(yachtID).OrderBy("CreatedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	records := make([]*model.AuditRecord, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit records")
		}

		var rec model.AuditRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode audit record", goerr.V("doc_id", docSnap.Ref.ID))
		}

		records = append(records, &rec)
	}

	return records, nil
}
