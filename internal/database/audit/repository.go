// Package audit provides database operations for the audit event trail.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/granthpal/libscan/internal/entities"
)

// Repository handles audit event persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent stores one audit event.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	return r.db.Create(event).Error
}

// Recent returns the newest events, capped at limit.
func (r *Repository) Recent(limit int) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// DeleteOlderThan removes events created before the cutoff and returns
// the number of rows deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
