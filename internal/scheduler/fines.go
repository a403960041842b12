// Package scheduler runs the periodic maintenance jobs, currently the
// overdue-fine accrual sweep.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/database/transactions"
)

// FinesConfig controls the accrual sweep.
type FinesConfig struct {
	Enabled    bool
	Schedule   string
	RatePerDay float64
}

// FineScheduler periodically accrues fines for overdue transactions.
// Each sweep is idempotent: a day already charged for is never charged
// again, so the schedule can be as frequent as the operator likes.
type FineScheduler struct {
	txns  *transactions.Repository
	audit *audit.Service
	cfg   FinesConfig

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	watchCtx   context.Context
	cancelFunc context.CancelFunc
}

func NewFineScheduler(txnRepo *transactions.Repository, auditService *audit.Service, cfg FinesConfig) *FineScheduler {
	return &FineScheduler{
		txns:  txnRepo,
		audit: auditService,
		cfg:   cfg,
		cron:  cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if fine accrual is enabled.
func (s *FineScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Fine scheduler: disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runAccrual()
	}); err != nil {
		return fmt.Errorf("invalid fine schedule '%s': %w", s.cfg.Schedule, err)
	}

	s.watchCtx, s.cancelFunc = context.WithCancel(ctx)
	watchCtx := s.watchCtx

	s.cron.Start()
	s.isRunning = true

	log.Printf("Fine scheduler: started with schedule '%s' at %.2f per day",
		s.cfg.Schedule, s.cfg.RatePerDay)

	go func() {
		<-watchCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *FineScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		// Release the context watcher started in Start; its re-entrant
		// Stop call is a no-op once isRunning is down.
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Fine scheduler: stopped")
}

// RunNow triggers an immediate accrual sweep.
func (s *FineScheduler) RunNow() {
	go s.runAccrual()
}

// IsRunning returns whether the scheduler is active.
func (s *FineScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *FineScheduler) runAccrual() {
	updated, err := s.AccrueFines(time.Now())
	if err != nil {
		log.Printf("Fine scheduler: accrual failed: %v", err)
	} else if updated > 0 {
		log.Printf("Fine scheduler: accrued fines on %d overdue transactions", updated)
	}
	if s.audit != nil {
		s.audit.LogFines(updated, err)
	}
}

// AccrueFines charges every overdue transaction for the whole days it is
// past due as of asOf, and returns how many fines were created or raised.
func (s *FineScheduler) AccrueFines(asOf time.Time) (int, error) {
	overdue, err := s.txns.FindOverdue(asOf)
	if err != nil {
		return 0, fmt.Errorf("find overdue transactions: %w", err)
	}

	updated := 0
	for _, txn := range overdue {
		days := int(asOf.Sub(txn.DueAt).Hours() / 24)
		if days < 1 {
			continue
		}
		amount := float64(days) * s.cfg.RatePerDay
		accruedThrough := txn.DueAt.AddDate(0, 0, days)
		if err := s.txns.UpsertFine(txn, amount, accruedThrough); err != nil {
			return updated, fmt.Errorf("accrue fine for transaction %d: %w", txn.ID, err)
		}
		updated++
	}
	return updated, nil
}
