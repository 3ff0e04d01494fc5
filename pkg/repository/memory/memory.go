package memory

import (
	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend, used for development and tests
type Memory struct {
	fault       *faultRepository
	workOrder   *workOrderRepository
	inventory   *inventoryRepository
	document    *documentRepository
	compliance  *complianceRepository
	idempotency *idempotencyRepository
	audit       *auditRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		fault:       newFaultRepository(),
		workOrder:   newWorkOrderRepository(),
		inventory:   newInventoryRepository(),
		document:    newDocumentRepository(),
		compliance:  newComplianceRepository(),
		idempotency: newIdempotencyRepository(),
		audit:       newAuditRepository(),
	}
}

func (m *Memory) Fault() interfaces.FaultRepository {
	return m.fault
}

func (m *Memory) WorkOrder() interfaces.WorkOrderRepository {
	return m.workOrder
}

func (m *Memory) Inventory() interfaces.InventoryRepository {
	return m.inventory
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) Compliance() interfaces.ComplianceRepository {
	return m.compliance
}

func (m *Memory) Idempotency() interfaces.IdempotencyRepository {
	return m.idempotency
}

func (m *Memory) Audit() interfaces.AuditRepository {
	return m.audit
}

func (m *Memory) Close() error {
	return nil
}
