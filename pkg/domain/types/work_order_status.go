package types

import "fmt"

// WorkOrderStatus represents the lifecycle state of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "OPEN"
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderStatusArchived   WorkOrderStatus = "ARCHIVED"
)

// AllWorkOrderStatuses returns all valid work order statuses
func AllWorkOrderStatuses() []WorkOrderStatus {
	return []WorkOrderStatus{
		WorkOrderStatusOpen,
		WorkOrderStatusInProgress,
		WorkOrderStatusCompleted,
		WorkOrderStatusArchived,
	}
}

// IsValid checks if the work order status is valid
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusOpen,
		WorkOrderStatusInProgress,
		WorkOrderStatusCompleted,
		WorkOrderStatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of the work order status
func (s WorkOrderStatus) String() string {
	return string(s)
}

// ParseWorkOrderStatus parses a string into a WorkOrderStatus
func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	status := WorkOrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid work order status: %s", s)
	}
	return status, nil
}
