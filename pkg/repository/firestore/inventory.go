package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type inventoryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newInventoryRepository(client *firestore.Client) *inventoryRepository {
	return &inventoryRepository{client: client}
}

func (r *inventoryRepository) collection(yachtID string) *firestore.CollectionRef {
	return r.client.Collection(yachtsCollection(r.collectionPrefix)).Doc(yachtID).Collection("inventory")
}

func (r *inventoryRepository) Create(ctx context.Context, yachtID string, item *model.InventoryItem) (*model.InventoryItem, error) {
	nextID, err := nextCounterValue(ctx, r.client, r.collectionPrefix, yachtID, "inventory_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next inventory ID")
	}

	now := time.Now().UTC()
	created := *item
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection(yachtID).Doc(docID(created.ID)).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create inventory item", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *inventoryRepository) Get(ctx context.Context, yachtID string, id int64) (*model.InventoryItem, error) {
	docSnap, err := r.collection(yachtID).Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "inventory item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get inventory item", goerr.V("id", id))
	}

	var item model.InventoryItem
	if err := docSnap.DataTo(&item); err != nil {
		return nil, goerr.Wrap(err, "failed to decode inventory item", goerr.V("id", id))
	}

	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, yachtID string) ([]*model.InventoryItem, error) {
	iter := r.collection(yachtID).Documents(ctx)
	defer iter.Stop()

	items := make([]*model.InventoryItem, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate inventory items")
		}

		var item model.InventoryItem
		if err := docSnap.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode inventory item", goerr.V("doc_id", docSnap.Ref.ID))
		}

		items = append(items, &item)
	}

	return items, nil
}

func (r *inventoryRepository) Update(ctx context.Context, yachtID string, item *model.InventoryItem) (*model.InventoryItem, error) {
	docRef := r.collection(yachtID).Doc(docID(item.ID))

	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "inventory item not found", goerr.V("id", item.ID))
		}
		return nil, goerr.Wrap(err, "failed to check inventory item existence", goerr.V("id", item.ID))
	}

	updated := *item
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update inventory item", goerr.V("id", item.ID))
	}

	return &updated, nil
}
