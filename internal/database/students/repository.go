// Package students provides database operations for student records,
// including the existing-email lookup used by bulk import.
package students

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/granthpal/libscan/internal/bulkimport"
	"github.com/granthpal/libscan/internal/entities"
)

// Repository handles all student database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a student by ID.
func (r *Repository) GetByID(id uint) (*entities.Student, error) {
	var student entities.Student
	if err := r.db.First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByStudentNumber retrieves a student by their number (PRN).
func (r *Repository) GetByStudentNumber(number string) (*entities.Student, error) {
	var student entities.Student
	if err := r.db.Where("student_number = ?", number).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByEmail retrieves a student by email (case-insensitive).
func (r *Repository) GetByEmail(email string) (*entities.Student, error) {
	var student entities.Student
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts one student.
func (r *Repository) Create(student *entities.Student) error {
	return r.db.Create(student).Error
}

// CreateFromRows persists accepted import rows.
func (r *Repository) CreateFromRows(rows []bulkimport.StudentRow) (int, []string) {
	created := 0
	var rowErrors []string
	for i, row := range rows {
		student := entities.Student{
			FullName:      row.FullName,
			Email:         strings.ToLower(row.Email),
			CourseLevel:   row.CourseLevel,
			Program:       row.Program,
			Year:          row.Year,
			Division:      row.Division,
			RollNumber:    row.RollNumber,
			StudentNumber: row.StudentNumber,
		}
		if err := r.db.Create(&student).Error; err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		created++
	}
	return created, rowErrors
}

// ExistingEmails reports which of the given emails already belong to
// registered students.
func (r *Repository) ExistingEmails(emails []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(emails) == 0 {
		return existing, nil
	}

	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		lowered = append(lowered, strings.ToLower(e))
	}

	var found []string
	if err := r.db.Model(&entities.Student{}).Where("LOWER(email) IN ?", lowered).Pluck("email", &found).Error; err != nil {
		return nil, err
	}
	for _, email := range found {
		existing[strings.ToLower(email)] = true
	}
	return existing, nil
}
