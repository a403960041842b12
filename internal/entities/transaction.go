package entities

import (
	"time"
)

type TransactionStatus string

const (
	TransactionStatusIssued   TransactionStatus = "issued"
	TransactionStatusReturned TransactionStatus = "returned"
)

type FineStatus string

const (
	FineStatusPending FineStatus = "pending"
	FineStatusPaid    FineStatus = "paid"
	FineStatusWaived  FineStatus = "waived"
)

// Transaction records one borrowing of a book by a student.
type Transaction struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	BookID     uint              `gorm:"index" json:"book_id"`
	StudentID  uint              `gorm:"index" json:"student_id"`
	Status     TransactionStatus `gorm:"index;size:16;default:'issued'" json:"status"`
	IssuedAt   time.Time         `json:"issued_at"`
	DueAt      time.Time         `gorm:"index" json:"due_at"`
	ReturnedAt *time.Time        `json:"returned_at,omitempty"`
	Book       Book              `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Student    Student           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Fine accrues per overdue transaction. AccruedThrough tracks the last day
// the scheduler has already charged for, so repeated runs are idempotent.
type Fine struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TransactionID  uint       `gorm:"uniqueIndex" json:"transaction_id"`
	StudentID      uint       `gorm:"index" json:"student_id"`
	Amount         float64    `json:"amount"`
	Status         FineStatus `gorm:"size:16;default:'pending'" json:"status"`
	AccruedThrough time.Time  `json:"accrued_through"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CheckIn is a library-entry register row produced by the check-in scanner.
type CheckIn struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"index" json:"student_id"`
	Student     Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CheckedInAt time.Time `gorm:"index" json:"checked_in_at"`
}
