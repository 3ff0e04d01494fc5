package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type workOrderRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWorkOrderRepository(client *firestore.Client) *workOrderRepository {
	return &workOrderRepository{client: client}
}

func (r *workOrderRepository) collection(yachtID string) *firestore.CollectionRef {
	return r.client.Collection(yachtsCollection(r.collectionPrefix)).Doc(yachtID).Collection("work_orders")
}

func (r *workOrderRepository) Create(ctx context.Context, yachtID string, wo *model.WorkOrder) (*model.WorkOrder, error) {
	nextID, err := nextCounterValue(ctx, r.client, r.collectionPrefix, yachtID, "work_order_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next work order ID")
	}

	now := time.Now().UTC()
	created := *wo
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection(yachtID).Doc(docID(created.ID)).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create work order", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *workOrderRepository) Get(ctx context.Context, yachtID string, id int64) (*model.WorkOrder, error) {
	docSnap, err := r.collection(yachtID).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "work order not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get work order", goerr.V("id", id))
	}

	var wo model.WorkOrder
	if err := docSnap.DataTo(&wo); err != nil {
		return nil, goerr.Wrap(err, "failed to decode work order", goerr.V("id", id))
	}

	return &wo, nil
}

func (r *workOrderRepository) List(ctx context.Context, yachtID string) ([]*model.WorkOrder, error) {
	iter := r.collection(yachtID).Documents(ctx)
	defer iter.Stop()

	orders := make([]*model.WorkOrder, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate work orders")
		}

		var wo model.WorkOrder
		if err := docSnap.DataTo(&wo); err != nil {
			return nil, goerr.Wrap(err, "failed to decode work order", goerr.V("doc_id", docSnap.Ref.ID))
		}

		orders = append(orders, &wo)
	}

	return orders, nil
}

func (r *workOrderRepository) Update(ctx context.Context, yachtID string, wo *model.WorkOrder) (*model.WorkOrder, error) {
	docRef := r.collection(yachtID).Doc(docID(wo.ID))

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "work order not found", goerr.V("id", wo.ID))
		}
		return nil, goerr.Wrap(err, "failed to check work order existence", goerr.V("id", wo.ID))
	}

	updated := *wo
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update work order", goerr.V("id", wo.ID))
	}

	return &updated, nil
}

func (r *workOrderRepository) GetByFault(ctx context.Context, yachtID string, faultID int64) (*model.WorkOrder, error) {
	iter := r.collection(yachtID).Where("FaultID", "==", faultID).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "no work order for fault", goerr.V("fault_id", faultID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query work order by fault", goerr.V("fault_id", faultID))
	}

	var wo model.WorkOrder
	if err := docSnap.DataTo(&wo); err != nil {
		return nil, goerr.Wrap(err, "failed to decode work order", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &wo, nil
}
