package model

import "time"

// InventoryItem represents a spare part or consumable held aboard
type InventoryItem struct {
	ID         int64
	Name       string
	PartNumber string
	Location   string
	Quantity   int64
	MinLevel   int64
	UnitPrice  float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Document represents a stored file (certificate, manual, report)
type Document struct {
	ID          int64
	Title       string
	Bucket      string
	Path        string
	Filename    string
	ContentType string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
}

// ComplianceWarning represents an expiring certificate or survey flagged by
// the compliance dashboard. Dismissal requires head-of-department privilege
// or above.
type ComplianceWarning struct {
	ID              int64
	CertificateType string
	ExpiresAt       time.Time
	Dismissed       bool
	DismissedBy     string
	DismissReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
