// Package audit records operator-visible events: bulk imports, scans and
// workflow actions. Writes happen in the background so the request path
// never blocks on the trail.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/granthpal/libscan/internal/database/audit"
	"github.com/granthpal/libscan/internal/entities"
)

// Service provides high-level audit logging.
type Service struct {
	repo *audit.Repository
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// Recent returns the newest audit events, most recent first.
func (s *Service) Recent(limit int) ([]entities.AuditEvent, error) {
	return s.repo.Recent(limit)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogImport records a bulk import event with its outcome counters.
func (s *Service) LogImport(source, entityType, description string, created, skipped int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      source + "_import",
		Description: description,
		EntityType:  entityType,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"created": created,
		"skipped": skipped,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogScan records one scan classification outcome.
func (s *Service) LogScan(channel, description string, accepted bool) {
	status := entities.AuditStatusSuccess
	if !accepted {
		status = entities.AuditStatusFailed
	}
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventScan,
		Action:      channel + "_scan",
		Description: truncate(description, 500),
		Status:      status,
	})
}

// LogWorkflow records an issue/return/check-in action.
func (s *Service) LogWorkflow(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventWorkflow,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogFines records one fine-accrual scheduler run.
func (s *Service) LogFines(updated int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventFines,
		Action:      "fine_accrual",
		Description: "Accrued overdue fines",
		Status:      entities.AuditStatusSuccess,
	}
	metadata := map[string]any{
		"updated": updated,
		"ran_at":  time.Now().Format(time.RFC3339),
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
