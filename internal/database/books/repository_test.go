package books

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granthpal/libscan/internal/bulkimport"
	"github.com/granthpal/libscan/internal/database"
	"github.com/granthpal/libscan/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "books_test.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestCreateAndGet(t *testing.T) {
	repo := setupRepo(t)

	book := &entities.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		ISBN:        "9780441013593",
		TotalCopies: 3,
	}
	require.NoError(t, repo.Create(book))
	assert.NotZero(t, book.ID)
	assert.Equal(t, 3, book.AvailableCopies, "available copies defaults to total")

	byID, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", byID.Title)

	byISBN, err := repo.GetByISBN("9780441013593")
	require.NoError(t, err)
	assert.Equal(t, book.ID, byISBN.ID)
}

func TestSearch(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Create(&entities.Book{Title: "Dune", Author: "Frank Herbert", TotalCopies: 1}))
	require.NoError(t, repo.Create(&entities.Book{Title: "The Hobbit", Author: "J. R. R. Tolkien", TotalCopies: 1}))

	t.Run("matches title case-insensitively", func(t *testing.T) {
		matches, err := repo.Search("dune")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Dune", matches[0].Title)
	})

	t.Run("matches author substring", func(t *testing.T) {
		matches, err := repo.Search("tolkien")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "The Hobbit", matches[0].Title)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		matches, err := repo.Search("asimov")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestCreateFromRows(t *testing.T) {
	repo := setupRepo(t)

	rows := []bulkimport.BookRow{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 2},
		{Title: "The Hobbit", Author: "J. R. R. Tolkien", TotalCopies: 1},
	}

	created, rowErrors := repo.CreateFromRows(rows)
	assert.Equal(t, 2, created)
	assert.Empty(t, rowErrors)

	book, err := repo.GetByISBN("9780441013593")
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)
}

func TestExistingISBNs(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Create(&entities.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", TotalCopies: 1}))

	existing, err := repo.ExistingISBNs([]string{"9780441013593", "9780261103344"})
	require.NoError(t, err)
	assert.True(t, existing["9780441013593"])
	assert.False(t, existing["9780261103344"])

	empty, err := repo.ExistingISBNs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAdjustAvailable(t *testing.T) {
	repo := setupRepo(t)
	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", TotalCopies: 2}
	require.NoError(t, repo.Create(book))

	require.NoError(t, repo.AdjustAvailable(book.ID, -1))
	require.NoError(t, repo.AdjustAvailable(book.ID, -1))

	err := repo.AdjustAvailable(book.ID, -1)
	assert.Error(t, err, "cannot go below zero")

	require.NoError(t, repo.AdjustAvailable(book.ID, 1))

	// Restoring past the total clamps instead of failing
	require.NoError(t, repo.AdjustAvailable(book.ID, 5))
	stored, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableCopies)
}
