// Package books provides database operations for the book catalog,
// including the existing-ISBN lookup the bulk import pipeline uses for
// de-duplication reporting.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/granthpal/libscan/internal/bulkimport"
	"github.com/granthpal/libscan/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN retrieves a book by its normalized ISBN.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Search matches books by title or author (case-insensitive partial match).
func (r *Repository) Search(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// Create inserts one book.
func (r *Repository) Create(book *entities.Book) error {
	if book.AvailableCopies == 0 {
		book.AvailableCopies = book.TotalCopies
	}
	return r.db.Create(book).Error
}

// CreateFromRows persists accepted import rows. Per-row failures are
// collected, not fatal; the count of created books is returned.
func (r *Repository) CreateFromRows(rows []bulkimport.BookRow) (int, []string) {
	created := 0
	var rowErrors []string
	for i, row := range rows {
		book := entities.Book{
			Title:           row.Title,
			Author:          row.Author,
			ISBN:            row.ISBN,
			Publisher:       row.Publisher,
			Category:        row.Category,
			PublicationYear: row.PublicationYear,
			TotalCopies:     row.TotalCopies,
			AvailableCopies: row.TotalCopies,
			ShelfLocation:   row.ShelfLocation,
			Description:     row.Description,
		}
		if err := r.db.Create(&book).Error; err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		created++
	}
	return created, rowErrors
}

// ExistingISBNs reports which of the given ISBNs are already cataloged.
func (r *Repository) ExistingISBNs(isbns []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(isbns) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.Model(&entities.Book{}).Where("isbn IN ?", isbns).Pluck("isbn", &found).Error; err != nil {
		return nil, err
	}
	for _, isbn := range found {
		existing[isbn] = true
	}
	return existing, nil
}

// AdjustAvailable changes a book's available-copy count by delta,
// refusing to go below zero or above the total.
func (r *Repository) AdjustAvailable(bookID uint, delta int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}
		next := book.AvailableCopies + delta
		if next < 0 {
			return errors.New("no available copies")
		}
		if next > book.TotalCopies {
			next = book.TotalCopies
		}
		return tx.Model(&book).Update("available_copies", next).Error
	})
}
