// Package bulkimport extracts normalized book and student records from
// uploaded CSV files and PDF documents. Extraction is heuristic: header
// aliases for CSV, bilingual label matching and fallback splitting for
// PDF text. Each invocation is independent; the only external touchpoint
// is the optional existing-record lookup used for de-duplication
// reporting.
package bulkimport

// BookRow is a normalized candidate book record. A row is materialized
// only when Title and Author are both non-empty.
type BookRow struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Category        string `json:"category,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	TotalCopies     int    `json:"total_copies"`
	ShelfLocation   string `json:"shelf_location,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Valid reports whether the row meets the minimum required fields.
func (r BookRow) Valid() bool {
	return r.Title != "" && r.Author != ""
}

// StudentRow is a normalized candidate student record.
type StudentRow struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	CourseLevel   string `json:"course_level,omitempty"`
	Program       string `json:"program,omitempty"`
	Year          string `json:"year,omitempty"`
	Division      string `json:"division,omitempty"`
	RollNumber    string `json:"roll_number,omitempty"`
	StudentNumber string `json:"student_number,omitempty"`
}

// Valid reports whether a full student record meets the minimum required
// fields. CSV rows are held to this bar.
func (r StudentRow) Valid() bool {
	return r.FullName != "" && r.Program != "" && r.Division != "" && r.RollNumber != ""
}

// ValidContact reports whether a row extracted from unstructured text
// (PDF email scanning) carries enough to provision a user downstream.
func (r StudentRow) ValidContact() bool {
	return r.FullName != "" && r.Email != ""
}
