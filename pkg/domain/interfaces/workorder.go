package interfaces

import (
	"context"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

// WorkOrderRepository defines the interface for WorkOrder data access
type WorkOrderRepository interface {
	// Create creates a new work order with auto-generated ID
	Create(ctx context.Context, yachtID string, wo *model.WorkOrder) (*model.WorkOrder, error)

	// Get retrieves a work order by ID
	Get(ctx context.Context, yachtID string, id int64) (*model.WorkOrder, error)

	// List retrieves all work orders
	List(ctx context.Context, yachtID string) ([]*model.WorkOrder, error)

	// Update updates an existing work order
	Update(ctx context.Context, yachtID string, wo *model.WorkOrder) (*model.WorkOrder, error)

	// GetByFault retrieves the work order created from a fault, if any.
	// Returns a not-found error when the fault has no associated work order.
	GetByFault(ctx context.Context, yachtID string, faultID int64) (*model.WorkOrder, error)
}

// FaultRepository defines the interface for Fault data access
type FaultRepository interface {
	Create(ctx context.Context, yachtID string, fault *model.Fault) (*model.Fault, error)
	Get(ctx context.Context, yachtID string, id int64) (*model.Fault, error)
	List(ctx context.Context, yachtID string) ([]*model.Fault, error)
	Update(ctx context.Context, yachtID string, fault *model.Fault) (*model.Fault, error)
}
