package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Firestore is the production repository backend. Entities live in
// yacht-scoped subcollections: yachts/{yachtID}/{collection}/{id}.
type Firestore struct {
	client      *firestore.Client
	fault       *faultRepository
	workOrder   *workOrderRepository
	inventory   *inventoryRepository
	document    *documentRepository
	compliance  *complianceRepository
	idempotency *idempotencyRepository
	audit       *auditRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all top-level collections, used to isolate
// test data
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.fault.collectionPrefix = prefix
		f.workOrder.collectionPrefix = prefix
		f.inventory.collectionPrefix = prefix
		f.document.collectionPrefix = prefix
		f.compliance.collectionPrefix = prefix
		f.idempotency.collectionPrefix = prefix
		f.audit.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		fault:       newFaultRepository(client),
		workOrder:   newWorkOrderRepository(client),
		inventory:   newInventoryRepository(client),
		document:    newDocumentRepository(client),
		compliance:  newComplianceRepository(client),
		idempotency: newIdempotencyRepository(client),
		audit:       newAuditRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Fault() interfaces.FaultRepository {
	return f.fault
}

func (f *Firestore) WorkOrder() interfaces.WorkOrderRepository {
	return f.workOrder
}

func (f *Firestore) Inventory() interfaces.InventoryRepository {
	return f.inventory
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.document
}

func (f *Firestore) Compliance() interfaces.ComplianceRepository {
	return f.compliance
}

func (f *Firestore) Idempotency() interfaces.IdempotencyRepository {
	return f.idempotency
}

func (f *Firestore) Audit() interfaces.AuditRepository {
	return f.audit
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// yachtsCollection returns the top-level collection name, honoring prefix
func yachtsCollection(prefix string) string {
	if prefix != "" {
		return prefix + "_yachts"
	}
	return "yachts"
}

// nextCounterValue atomically increments a named counter under the yacht doc
// and returns the new value
func nextCounterValue(ctx context.Context, client *firestore.Client, prefix, yachtID, counterName string) (int64, error) {
	counterRef := client.Collection(yachtsCollection(prefix)).Doc(yachtID).
		Collection("counters").Doc(counterName)

	var nextID int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if isNotFound(err) {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("counter", counterName))
	}

	return nextID, nil
}

func docID(id int64) string {
	return fmt.Sprintf("%d", id)
}
