package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granthpal/libscan/internal/database"
	"github.com/granthpal/libscan/internal/database/transactions"
	"github.com/granthpal/libscan/internal/entities"
)

func setupScheduler(t *testing.T, rate float64) (*FineScheduler, *database.Database) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "fines_test.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewFineScheduler(transactions.NewRepository(db.DB), nil, FinesConfig{
		Enabled:    true,
		Schedule:   "0 2 * * *",
		RatePerDay: rate,
	})
	return s, db
}

func seedTransaction(t *testing.T, db *database.Database, dueAt time.Time, status entities.TransactionStatus) *entities.Transaction {
	t.Helper()
	txn := &entities.Transaction{
		BookID:    1,
		StudentID: 1,
		Status:    status,
		IssuedAt:  dueAt.AddDate(0, 0, -14),
		DueAt:     dueAt,
	}
	require.NoError(t, db.DB.Create(txn).Error)
	return txn
}

func TestAccrueFines(t *testing.T) {
	s, db := setupScheduler(t, 2.5)
	now := time.Now()

	overdue := seedTransaction(t, db, now.AddDate(0, 0, -3), entities.TransactionStatusIssued)
	seedTransaction(t, db, now.AddDate(0, 0, 5), entities.TransactionStatusIssued)
	seedTransaction(t, db, now.AddDate(0, 0, -10), entities.TransactionStatusReturned)

	updated, err := s.AccrueFines(now)
	require.NoError(t, err)
	assert.Equal(t, 1, updated, "only the open overdue transaction accrues")

	var fine entities.Fine
	require.NoError(t, db.DB.Where("transaction_id = ?", overdue.ID).First(&fine).Error)
	assert.Equal(t, 7.5, fine.Amount)
	assert.Equal(t, entities.FineStatusPending, fine.Status)
}

func TestAccrueFinesIsIdempotent(t *testing.T) {
	s, db := setupScheduler(t, 1.0)
	now := time.Now()
	overdue := seedTransaction(t, db, now.AddDate(0, 0, -5), entities.TransactionStatusIssued)

	_, err := s.AccrueFines(now)
	require.NoError(t, err)
	_, err = s.AccrueFines(now)
	require.NoError(t, err)

	var fines []entities.Fine
	require.NoError(t, db.DB.Where("transaction_id = ?", overdue.ID).Find(&fines).Error)
	require.Len(t, fines, 1)
	assert.Equal(t, 5.0, fines[0].Amount)

	// A later sweep raises the amount on the same row.
	_, err = s.AccrueFines(now.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.NoError(t, db.DB.Where("transaction_id = ?", overdue.ID).Find(&fines).Error)
	require.Len(t, fines, 1)
	assert.Equal(t, 7.0, fines[0].Amount)
}

func TestSchedulerStartStop(t *testing.T) {
	s, _ := setupScheduler(t, 1.0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	watchCtx := s.watchCtx
	s.Stop()
	assert.False(t, s.IsRunning())

	// Stop releases the context watcher, it must not linger until the
	// parent context ends.
	select {
	case <-watchCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher context not cancelled by Stop")
	}
}

func TestSchedulerDisabled(t *testing.T) {
	s, _ := setupScheduler(t, 1.0)
	s.cfg.Enabled = false

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
