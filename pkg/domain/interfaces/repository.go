package interfaces

// Repository defines the interface for data persistence. All entity stores
// are scoped by yacht ID; idempotency records are global (keys are unique
// per attempt, not per yacht).
type Repository interface {
	Fault() FaultRepository
	WorkOrder() WorkOrderRepository
	Inventory() InventoryRepository
	Document() DocumentRepository
	Compliance() ComplianceRepository
	Idempotency() IdempotencyRepository
	Audit() AuditRepository

	Close() error
}
