package entities

import "time"

type AuditEventType string

const (
	AuditEventImport   AuditEventType = "import"
	AuditEventScan     AuditEventType = "scan"
	AuditEventWorkflow AuditEventType = "workflow"
	AuditEventFines    AuditEventType = "fines"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one row of the operator-visible activity trail.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:32" json:"event_type"`
	Action      string         `gorm:"size:64" json:"action"`
	Description string         `gorm:"size:512" json:"description"`
	EntityType  string         `gorm:"size:32" json:"entity_type,omitempty"`
	Status      AuditStatus    `gorm:"size:16" json:"status"`
	ErrorMsg    string         `gorm:"size:512" json:"error_msg,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}
