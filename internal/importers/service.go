// Package importers runs the bulk document pipeline end to end: it picks
// the parser for the uploaded format, extracts candidate rows, dedupes
// them, skips rows that already exist in the store and persists the rest.
//
// The same service backs the HTTP upload endpoints, the CLI import
// subcommands and the background import tasks.
package importers

import (
	"fmt"
	"io"
	"log"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/bulkimport"
	"github.com/granthpal/libscan/internal/database/books"
	"github.com/granthpal/libscan/internal/database/students"
	"github.com/granthpal/libscan/internal/pdftext"
)

// Format selects the parser for an uploaded document.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat maps a user-supplied format string (or file extension) to a
// Format. Unknown values return an error rather than guessing.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv", ".csv", "text/csv":
		return FormatCSV, nil
	case "pdf", ".pdf", "application/pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported document format %q (expected csv or pdf)", s)
	}
}

// File is the minimal handle the service needs: sequential reads for CSV
// and random access for the PDF parser. Both *os.File and multipart
// uploads satisfy it.
type File interface {
	io.Reader
	io.ReaderAt
}

// Result aggregates what happened to a single document.
type Result struct {
	Summary bulkimport.Summary `json:"summary"`
	Created int                `json:"created"`
	Errors  []string           `json:"errors,omitempty"`
}

// Service binds the extraction pipeline to the persistence layer.
type Service struct {
	books    *books.Repository
	students *students.Repository
	audit    *audit.Service
}

func NewService(bookRepo *books.Repository, studentRepo *students.Repository, auditService *audit.Service) *Service {
	return &Service{
		books:    bookRepo,
		students: studentRepo,
		audit:    auditService,
	}
}

// ImportBooks extracts book rows from the document and persists the ones
// that survive validation, dedupe and the already-exists check. Row-level
// problems are collected in the result, not returned as errors; only a
// document that cannot be parsed at all fails.
func (s *Service) ImportBooks(file File, size int64, format Format, source string) (Result, error) {
	var result Result

	rows, softErrors, err := s.extractBookRows(file, size, format)
	if err != nil {
		s.audit.LogImport(source, "books", "document could not be parsed", 0, 0, err)
		return result, err
	}
	result.Errors = softErrors

	pipeline := bulkimport.NewPipeline(s.books)
	accepted, summary, err := pipeline.PrepareBooks(rows)
	if err != nil {
		s.audit.LogImport(source, "books", "existing-record lookup failed", 0, 0, err)
		return result, err
	}
	result.Summary = summary

	created, rowErrors := s.books.CreateFromRows(accepted)
	result.Created = created
	result.Errors = append(result.Errors, rowErrors...)

	log.Printf("Imported %d/%d books from %s (%d duplicates, %d already present)",
		created, summary.Extracted, source, summary.Duplicates, summary.AlreadyExists)
	s.audit.LogImport(source, "books",
		fmt.Sprintf("extracted %d, accepted %d", summary.Extracted, summary.Accepted),
		created, summary.Duplicates+summary.AlreadyExists, nil)
	return result, nil
}

// ImportStudents is the student-roster counterpart of ImportBooks.
func (s *Service) ImportStudents(file File, size int64, format Format, source string) (Result, error) {
	var result Result

	rows, softErrors, err := s.extractStudentRows(file, size, format)
	if err != nil {
		s.audit.LogImport(source, "students", "document could not be parsed", 0, 0, err)
		return result, err
	}
	result.Errors = softErrors

	pipeline := bulkimport.NewPipeline(s.students)
	accepted, summary, err := pipeline.PrepareStudents(rows)
	if err != nil {
		s.audit.LogImport(source, "students", "existing-record lookup failed", 0, 0, err)
		return result, err
	}
	result.Summary = summary

	created, rowErrors := s.students.CreateFromRows(accepted)
	result.Created = created
	result.Errors = append(result.Errors, rowErrors...)

	log.Printf("Imported %d/%d students from %s (%d duplicates, %d already present)",
		created, summary.Extracted, source, summary.Duplicates, summary.AlreadyExists)
	s.audit.LogImport(source, "students",
		fmt.Sprintf("extracted %d, accepted %d", summary.Extracted, summary.Accepted),
		created, summary.Duplicates+summary.AlreadyExists, nil)
	return result, nil
}

// PreviewBooks runs extraction and the dedupe/already-exists checks
// without writing anything, for dry runs.
func (s *Service) PreviewBooks(file File, size int64, format Format) ([]bulkimport.BookRow, bulkimport.Summary, []string, error) {
	rows, softErrors, err := s.extractBookRows(file, size, format)
	if err != nil {
		return nil, bulkimport.Summary{}, nil, err
	}
	accepted, summary, err := bulkimport.NewPipeline(s.books).PrepareBooks(rows)
	return accepted, summary, softErrors, err
}

// PreviewStudents is the student-roster counterpart of PreviewBooks.
func (s *Service) PreviewStudents(file File, size int64, format Format) ([]bulkimport.StudentRow, bulkimport.Summary, []string, error) {
	rows, softErrors, err := s.extractStudentRows(file, size, format)
	if err != nil {
		return nil, bulkimport.Summary{}, nil, err
	}
	accepted, summary, err := bulkimport.NewPipeline(s.students).PrepareStudents(rows)
	return accepted, summary, softErrors, err
}

func (s *Service) extractBookRows(file File, size int64, format Format) ([]bulkimport.BookRow, []string, error) {
	switch format {
	case FormatCSV:
		return bulkimport.ParseBookCSV(file)
	case FormatPDF:
		lines, err := pdftext.Lines(file, size)
		if err != nil {
			return nil, nil, err
		}
		return bulkimport.ExtractBooks(lines), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported document format %q", format)
	}
}

func (s *Service) extractStudentRows(file File, size int64, format Format) ([]bulkimport.StudentRow, []string, error) {
	switch format {
	case FormatCSV:
		return bulkimport.ParseStudentCSV(file)
	case FormatPDF:
		lines, err := pdftext.Lines(file, size)
		if err != nil {
			return nil, nil, err
		}
		return bulkimport.ExtractStudents(lines), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported document format %q", format)
	}
}
