package model

import (
	"time"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// WorkOrder represents a maintenance work order, optionally created from a
// reported fault (1:1 from the fault's side).
type WorkOrder struct {
	ID                 int64
	FaultID            int64 // 0 when not created from a fault
	Title              string
	Description        string
	Priority           string
	Status             types.WorkOrderStatus
	Outcome            string // set on completion: completed / deferred / cancelled
	CompletionNote     string
	QualityCheckPassed bool
	AssigneeIDs        []string
	Notes              []string
	CreatedBy          string
	CompletedBy        string
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Fault represents an equipment fault reported by crew
type Fault struct {
	ID          int64
	Equipment   string
	Title       string
	Description string
	Severity    string
	ReportedBy  string
	WorkOrderID int64 // 0 until a work order is created from this fault
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
