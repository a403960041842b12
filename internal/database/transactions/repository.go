// Package transactions provides database operations for borrowing
// transactions, fines and check-in records.
package transactions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/granthpal/libscan/internal/entities"
)

var ErrNoOpenTransaction = errors.New("no open transaction for book")

// Repository handles transaction, fine and check-in operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Issue creates an issued transaction for a student and a book.
func (r *Repository) Issue(studentID, bookID uint, issuedAt time.Time, loanDays int) (*entities.Transaction, error) {
	txn := &entities.Transaction{
		BookID:    bookID,
		StudentID: studentID,
		Status:    entities.TransactionStatusIssued,
		IssuedAt:  issuedAt,
		DueAt:     issuedAt.AddDate(0, 0, loanDays),
	}
	if err := r.db.Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// FindOpenByBook returns the issued transaction for a book, if any.
func (r *Repository) FindOpenByBook(bookID uint) (*entities.Transaction, error) {
	var txn entities.Transaction
	err := r.db.
		Where("book_id = ? AND status = ?", bookID, entities.TransactionStatusIssued).
		Order("issued_at DESC").
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenTransaction
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// MarkReturned closes a transaction.
func (r *Repository) MarkReturned(txnID uint, returnedAt time.Time) error {
	return r.db.Model(&entities.Transaction{}).
		Where("id = ?", txnID).
		Updates(map[string]any{
			"status":      entities.TransactionStatusReturned,
			"returned_at": returnedAt,
		}).Error
}

// FindOverdue returns issued transactions whose due date has passed.
func (r *Repository) FindOverdue(asOf time.Time) ([]entities.Transaction, error) {
	var txns []entities.Transaction
	err := r.db.
		Where("status = ? AND due_at < ?", entities.TransactionStatusIssued, asOf).
		Find(&txns).Error
	return txns, err
}

// GetFineByTransaction returns the fine row for a transaction, if any.
func (r *Repository) GetFineByTransaction(txnID uint) (*entities.Fine, error) {
	var fine entities.Fine
	err := r.db.Where("transaction_id = ?", txnID).First(&fine).Error
	if err != nil {
		return nil, err
	}
	return &fine, nil
}

// UpsertFine creates or updates the fine accrued for an overdue
// transaction. AccruedThrough keeps repeated scheduler runs idempotent.
func (r *Repository) UpsertFine(txn entities.Transaction, amount float64, accruedThrough time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var fine entities.Fine
		err := tx.Where("transaction_id = ?", txn.ID).First(&fine).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&entities.Fine{
				TransactionID:  txn.ID,
				StudentID:      txn.StudentID,
				Amount:         amount,
				Status:         entities.FineStatusPending,
				AccruedThrough: accruedThrough,
			}).Error
		}
		if err != nil {
			return err
		}
		if !accruedThrough.After(fine.AccruedThrough) {
			return nil
		}
		return tx.Model(&fine).Updates(map[string]any{
			"amount":          amount,
			"accrued_through": accruedThrough,
		}).Error
	})
}

// CreateCheckIn records a library-entry event for a student.
func (r *Repository) CreateCheckIn(studentID uint, at time.Time) (*entities.CheckIn, error) {
	checkIn := &entities.CheckIn{
		StudentID:   studentID,
		CheckedInAt: at,
	}
	if err := r.db.Create(checkIn).Error; err != nil {
		return nil, err
	}
	return checkIn, nil
}
