package bulkimport

import (
	"fmt"
	"strings"
)

// ExistingLookup is the persistence-side de-duplication check. The
// extractor only reads from it; already-persisted rows are reported as
// skips, never written back.
type ExistingLookup interface {
	ExistingISBNs(isbns []string) (map[string]bool, error)
	ExistingEmails(emails []string) (map[string]bool, error)
}

// Summary describes the outcome of preparing one document for import.
type Summary struct {
	Extracted     int      `json:"extracted"`
	Duplicates    int      `json:"duplicates"`
	AlreadyExists int      `json:"already_exists"`
	Accepted      int      `json:"accepted"`
	Skipped       []string `json:"skipped,omitempty"`
}

// Pipeline runs the common preparation steps over extracted rows:
// document-local de-duplication, then the downstream existing-record
// check. It holds no state between invocations.
type Pipeline struct {
	lookup ExistingLookup
}

// NewPipeline creates a pipeline. A nil lookup disables the downstream
// existence check (useful for dry runs and tests).
func NewPipeline(lookup ExistingLookup) *Pipeline {
	return &Pipeline{lookup: lookup}
}

// PrepareBooks de-duplicates and filters book rows against the store.
func (p *Pipeline) PrepareBooks(rows []BookRow) ([]BookRow, Summary, error) {
	summary := Summary{Extracted: len(rows)}

	deduped := DedupeBooks(rows)
	summary.Duplicates = len(rows) - len(deduped)

	existing := map[string]bool{}
	if p.lookup != nil {
		var isbns []string
		for _, row := range deduped {
			if row.ISBN != "" {
				isbns = append(isbns, row.ISBN)
			}
		}
		if len(isbns) > 0 {
			var err error
			existing, err = p.lookup.ExistingISBNs(isbns)
			if err != nil {
				return nil, summary, fmt.Errorf("existing ISBN lookup: %w", err)
			}
		}
	}

	accepted := make([]BookRow, 0, len(deduped))
	for _, row := range deduped {
		if row.ISBN != "" && existing[row.ISBN] {
			summary.AlreadyExists++
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("already exists: %q (%s)", row.Title, row.ISBN))
			continue
		}
		accepted = append(accepted, row)
	}

	summary.Accepted = len(accepted)
	return accepted, summary, nil
}

// PrepareStudents de-duplicates and filters student rows against the
// store by email.
func (p *Pipeline) PrepareStudents(rows []StudentRow) ([]StudentRow, Summary, error) {
	summary := Summary{Extracted: len(rows)}

	deduped := DedupeStudents(rows)
	summary.Duplicates = len(rows) - len(deduped)

	existing := map[string]bool{}
	if p.lookup != nil {
		var emails []string
		for _, row := range deduped {
			if row.Email != "" {
				emails = append(emails, strings.ToLower(row.Email))
			}
		}
		if len(emails) > 0 {
			var err error
			existing, err = p.lookup.ExistingEmails(emails)
			if err != nil {
				return nil, summary, fmt.Errorf("existing email lookup: %w", err)
			}
		}
	}

	accepted := make([]StudentRow, 0, len(deduped))
	for _, row := range deduped {
		if row.Email != "" && existing[strings.ToLower(row.Email)] {
			summary.AlreadyExists++
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("already exists: %s", row.Email))
			continue
		}
		accepted = append(accepted, row)
	}

	summary.Accepted = len(accepted)
	return accepted, summary, nil
}
