package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

type idempotencyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIdempotencyRepository(client *firestore.Client) *idempotencyRepository {
	return &idempotencyRepository{client: client}
}

func (r *idempotencyRepository) collection() *firestore.CollectionRef {
	name := "idempotency_records"
	if r.collectionPrefix != "" {
		name = r.collectionPrefix + "_" + name
	}
	return r.client.Collection(name)
}

// idempotencyDoc is the stored form: the result is flattened to JSON-ish
// fields so firestore can index the key and expiry without a custom codec.
type idempotencyDoc struct {
	Key           string         `firestore:"key"`
	ActionID      string         `firestore:"action_id"`
	ResultStatus  string         `firestore:"result_status"`
	ResultMessage string         `firestore:"result_message"`
	ResultCode    string         `firestore:"result_code"`
	ResultData    map[string]any `firestore:"result_data"`
	FirstSeenAt   time.Time      `firestore:"first_seen_at"`
	ExpiresAt     time.Time      `firestore:"expires_at"`
}

func toIdempotencyDoc(rec *model.IdempotencyRecord) *idempotencyDoc {
	doc := &idempotencyDoc{
		Key:         rec.Key,
		ActionID:    rec.ActionID.String(),
		FirstSeenAt: rec.FirstSeenAt,
		ExpiresAt:   rec.ExpiresAt,
	}
	if rec.RecordedResult != nil {
		doc.ResultStatus = rec.RecordedResult.Status.String()
		doc.ResultMessage = rec.RecordedResult.Message
		doc.ResultCode = rec.RecordedResult.ErrorCode.String()
		doc.ResultData = rec.RecordedResult.Result
	}
	return doc
}

func (d *idempotencyDoc) toModel() *model.IdempotencyRecord {
	rec := &model.IdempotencyRecord{
		Key:         d.Key,
		ActionID:    types.ActionID(d.ActionID),
		FirstSeenAt: d.FirstSeenAt,
		ExpiresAt:   d.ExpiresAt,
	}
	if d.ResultStatus != "" {
		rec.RecordedResult = &model.ExecuteResult{
			Status:    types.ExecStatus(d.ResultStatus),
			Message:   d.ResultMessage,
			ErrorCode: types.ErrorCode(d.ResultCode),
			Result:    d.ResultData,
		}
	}
	return rec
}

func (r *idempotencyRepository) PutIfAbsent(ctx context.Context, record *model.IdempotencyRecord) (*model.IdempotencyRecord, bool, error) {
	if record.Key == "" {
		return nil, false, goerr.New("idempotency key is empty")
	}

	docRef := r.collection().Doc(record.Key)

	var stored *model.IdempotencyRecord
	var claimed bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err == nil {
			var existing idempotencyDoc
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to decode idempotency record")
			}
			stored = existing.toModel()
			claimed = false
			return nil
		}
		if !isNotFound(err) {
			return goerr.Wrap(err, "failed to get idempotency record")
		}

		stored = record
		claimed = true
		return tx.Set(docRef, toIdempotencyDoc(record))
	})
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to claim idempotency key", goerr.V("key", record.Key))
	}

	return stored, claimed, nil
}

func (r *idempotencyRepository) Get(ctx context.Context, key string) (*model.IdempotencyRecord, error) {
	snap, err := r.collection().Doc(key).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "idempotency record not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get idempotency record", goerr.V("key", key))
	}

	var doc idempotencyDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode idempotency record", goerr.V("key", key))
	}

	return doc.toModel(), nil
}

func (r *idempotencyRepository) Update(ctx context.Context, record *model.IdempotencyRecord) error {
	docRef := r.collection().Doc(record.Key)

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrNotFound, "idempotency record not found", goerr.V("key", record.Key))
		}
		return goerr.Wrap(err, "failed to check idempotency record existence", goerr.V("key", record.Key))
	}

	if _, err := docRef.Set(ctx, toIdempotencyDoc(record)); err != nil {
		return goerr.Wrap(err, "failed to update idempotency record", goerr.V("key", record.Key))
	}

	return nil
}

func (r *idempotencyRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	iter := r.collection().Where("expires_at", "<", now).Documents(ctx)
	defer iter.Stop()

	purged := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return purged, goerr.Wrap(err, "failed to iterate expired idempotency records")
		}

		if _, err := snap.Ref.Delete(ctx); err != nil {
			return purged, goerr.Wrap(err, "failed to delete expired idempotency record",
				goerr.V("key", snap.Ref.ID))
		}
		purged++
	}

	return purged, nil
}
