package workflow

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granthpal/libscan/internal/database"
	"github.com/granthpal/libscan/internal/database/books"
	"github.com/granthpal/libscan/internal/database/students"
	"github.com/granthpal/libscan/internal/database/transactions"
	"github.com/granthpal/libscan/internal/entities"
	"github.com/granthpal/libscan/internal/scan"
)

func setupService(t *testing.T) (*Service, *database.Database) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "workflow_test.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(
		books.NewRepository(db.DB),
		students.NewRepository(db.DB),
		transactions.NewRepository(db.DB),
		14,
	)
	return svc, db
}

func seedStudent(t *testing.T, db *database.Database) *entities.Student {
	t.Helper()
	student := &entities.Student{
		FullName:      "Asha Kulkarni",
		Email:         "asha.kulkarni@example.edu",
		Program:       "BSc",
		Division:      "A",
		RollNumber:    "17",
		StudentNumber: "STU-2024-0042",
	}
	require.NoError(t, db.DB.Create(student).Error)
	return student
}

func seedBook(t *testing.T, db *database.Database, copies int) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Title:           "The Pragmatic Programmer",
		Author:          "Hunt, Thomas",
		ISBN:            "9780135957059",
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}

func TestResolveStudent(t *testing.T) {
	svc, db := setupService(t)
	seeded := seedStudent(t, db)

	t.Run("resolves structured identity by student number", func(t *testing.T) {
		record := scan.StudentIdentity{
			StudentID:     "1",
			StudentNumber: "STU-2024-0042",
			Email:         "asha.kulkarni@example.edu",
		}
		student, err := svc.ResolveStudent(record)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, student.ID)
	})

	t.Run("falls back to email when number is unknown", func(t *testing.T) {
		record := scan.StudentIdentity{
			StudentID:     "1",
			StudentNumber: "STU-9999-0000",
			Email:         "ASHA.KULKARNI@example.edu",
		}
		student, err := svc.ResolveStudent(record)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, student.ID)
	})

	t.Run("resolves generic code as student number", func(t *testing.T) {
		student, err := svc.ResolveStudent(scan.GenericCode{RawText: "STU-2024-0042", Assumed: scan.ClassStudent})
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, student.ID)
	})

	t.Run("unknown code returns ErrStudentNotFound", func(t *testing.T) {
		_, err := svc.ResolveStudent(scan.GenericCode{RawText: "nobody"})
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	t.Run("book record cannot resolve to a student", func(t *testing.T) {
		_, err := svc.ResolveStudent(scan.BookIdentity{ISBN: "9780135957059"})
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})
}

func TestResolveBook(t *testing.T) {
	svc, db := setupService(t)
	seeded := seedBook(t, db, 2)

	t.Run("resolves by ISBN with separators stripped", func(t *testing.T) {
		book, err := svc.ResolveBook(scan.BookIdentity{ISBN: "978-0-13-595705-9"})
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, book.ID)
	})

	t.Run("resolves generic ISBN-shaped code", func(t *testing.T) {
		book, err := svc.ResolveBook(scan.GenericCode{RawText: "9780135957059", Assumed: scan.ClassBook})
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, book.ID)
	})

	t.Run("falls back to title search", func(t *testing.T) {
		book, err := svc.ResolveBook(scan.BookIdentity{Title: "Pragmatic"})
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, book.ID)
	})

	t.Run("unknown ISBN returns ErrBookNotFound", func(t *testing.T) {
		_, err := svc.ResolveBook(scan.BookIdentity{ISBN: "9999999999999"})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestIssueAndReturn(t *testing.T) {
	svc, db := setupService(t)
	student := seedStudent(t, db)
	book := seedBook(t, db, 1)

	txn, err := svc.Issue(student, book)
	require.NoError(t, err)
	assert.Equal(t, entities.TransactionStatusIssued, txn.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), txn.DueAt, time.Minute)

	var stored entities.Book
	require.NoError(t, db.DB.First(&stored, book.ID).Error)
	assert.Equal(t, 0, stored.AvailableCopies)

	// Last copy is out; a second issue must fail and leave no transaction.
	_, err = svc.Issue(student, book)
	assert.Error(t, err)

	returned, err := svc.Return(book)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, returned.ID)

	require.NoError(t, db.DB.First(&stored, book.ID).Error)
	assert.Equal(t, 1, stored.AvailableCopies)

	_, err = svc.Return(book)
	assert.ErrorIs(t, err, transactions.ErrNoOpenTransaction)
}

func TestCheckIn(t *testing.T) {
	svc, db := setupService(t)
	student := seedStudent(t, db)

	checkIn, err := svc.CheckIn(student)
	require.NoError(t, err)
	assert.Equal(t, student.ID, checkIn.StudentID)
	assert.NotZero(t, checkIn.ID)
}
