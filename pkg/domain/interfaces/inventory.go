package interfaces

import (
	"context"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

// InventoryRepository defines the interface for InventoryItem data access
type InventoryRepository interface {
	Create(ctx context.Context, yachtID string, item *model.InventoryItem) (*model.InventoryItem, error)
	Get(ctx context.Context, yachtID string, id int64) (*model.InventoryItem, error)
	List(ctx context.Context, yachtID string) ([]*model.InventoryItem, error)
	Update(ctx context.Context, yachtID string, item *model.InventoryItem) (*model.InventoryItem, error)
}

// DocumentRepository defines the interface for Document data access
type DocumentRepository interface {
	Create(ctx context.Context, yachtID string, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, yachtID string, id int64) (*model.Document, error)
	List(ctx context.Context, yachtID string) ([]*model.Document, error)
}

// ComplianceRepository defines the interface for ComplianceWarning data access
type ComplianceRepository interface {
	Create(ctx context.Context, yachtID string, warning *model.ComplianceWarning) (*model.ComplianceWarning, error)
	Get(ctx context.Context, yachtID string, id int64) (*model.ComplianceWarning, error)
	List(ctx context.Context, yachtID string) ([]*model.ComplianceWarning, error)
	Update(ctx context.Context, yachtID string, warning *model.ComplianceWarning) (*model.ComplianceWarning, error)
}
