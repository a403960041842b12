// Package workflow is the handoff target for accepted scan records: it
// resolves a classified identity against the store and performs the
// issue, return and check-in operations.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/granthpal/libscan/internal/database/books"
	"github.com/granthpal/libscan/internal/database/students"
	"github.com/granthpal/libscan/internal/database/transactions"
	"github.com/granthpal/libscan/internal/entities"
	"github.com/granthpal/libscan/internal/scan"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrBookNotFound    = errors.New("book not found")
)

// Service wires the three repositories behind the scan workflows.
type Service struct {
	books    *books.Repository
	students *students.Repository
	txns     *transactions.Repository

	loanDays int
}

func NewService(bookRepo *books.Repository, studentRepo *students.Repository, txnRepo *transactions.Repository, loanDays int) *Service {
	if loanDays <= 0 {
		loanDays = 14
	}
	return &Service{
		books:    bookRepo,
		students: studentRepo,
		txns:     txnRepo,
		loanDays: loanDays,
	}
}

// ResolveStudent maps an accepted scan record onto a stored student.
func (s *Service) ResolveStudent(record scan.Record) (*entities.Student, error) {
	switch rec := record.(type) {
	case scan.StudentIdentity:
		student, err := s.students.GetByStudentNumber(rec.StudentNumber)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			student, err = s.students.GetByEmail(rec.Email)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return student, err
	case scan.GenericCode:
		student, err := s.students.GetByStudentNumber(rec.RawText)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return student, err
	default:
		return nil, fmt.Errorf("%w: record is not a student identity", ErrStudentNotFound)
	}
}

// ResolveBook maps an accepted scan record onto a cataloged book.
func (s *Service) ResolveBook(record scan.Record) (*entities.Book, error) {
	switch rec := record.(type) {
	case scan.BookIdentity:
		if rec.ISBN != "" {
			book, err := s.books.GetByISBN(scan.NormalizeCode(rec.ISBN))
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookNotFound
			}
			return book, err
		}
		if rec.Title != "" {
			matches, err := s.books.Search(rec.Title)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, ErrBookNotFound
			}
			return &matches[0], nil
		}
		return nil, ErrBookNotFound
	case scan.GenericCode:
		book, err := s.books.GetByISBN(scan.NormalizeCode(rec.RawText))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return book, err
	default:
		return nil, fmt.Errorf("%w: record is not a book identity", ErrBookNotFound)
	}
}

// Issue lends a book to a student, decrementing availability.
func (s *Service) Issue(student *entities.Student, book *entities.Book) (*entities.Transaction, error) {
	if err := s.books.AdjustAvailable(book.ID, -1); err != nil {
		return nil, fmt.Errorf("issue %q: %w", book.Title, err)
	}
	txn, err := s.txns.Issue(student.ID, book.ID, time.Now(), s.loanDays)
	if err != nil {
		// Availability was already taken; put the copy back.
		if restoreErr := s.books.AdjustAvailable(book.ID, 1); restoreErr != nil {
			return nil, fmt.Errorf("issue %q: %v (restore failed: %w)", book.Title, err, restoreErr)
		}
		return nil, err
	}
	return txn, nil
}

// Return closes the open transaction for a book and restores a copy.
func (s *Service) Return(book *entities.Book) (*entities.Transaction, error) {
	txn, err := s.txns.FindOpenByBook(book.ID)
	if err != nil {
		return nil, err
	}
	if err := s.txns.MarkReturned(txn.ID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.books.AdjustAvailable(book.ID, 1); err != nil {
		return nil, err
	}
	return txn, nil
}

// CheckIn records a library-entry event for a scanned student.
func (s *Service) CheckIn(student *entities.Student) (*entities.CheckIn, error) {
	return s.txns.CreateCheckIn(student.ID, time.Now())
}
