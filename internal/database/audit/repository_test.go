package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granthpal/libscan/internal/database"
	"github.com/granthpal/libscan/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "audit_test.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestLogEventAndRecent(t *testing.T) {
	repo := setupRepo(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			EventType: entities.AuditEventScan,
			Action:    "classify",
			Status:    entities.AuditStatusSuccess,
		}))
	}

	events, err := repo.Recent(2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestDeleteOlderThan(t *testing.T) {
	repo := setupRepo(t)

	old := &entities.AuditEvent{
		EventType: entities.AuditEventImport,
		Action:    "csv_import",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(old))
	require.NoError(t, repo.db.Model(old).Update("created_at", time.Now().AddDate(0, 0, -60)).Error)

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventScan,
		Action:    "classify",
		Status:    entities.AuditStatusSuccess,
	}))

	deleted, err := repo.DeleteOlderThan(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, err := repo.Recent(10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
