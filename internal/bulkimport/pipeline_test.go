package bulkimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLookup struct {
	isbns  map[string]bool
	emails map[string]bool
}

func (m *mockLookup) ExistingISBNs(isbns []string) (map[string]bool, error) {
	return m.isbns, nil
}

func (m *mockLookup) ExistingEmails(emails []string) (map[string]bool, error) {
	return m.emails, nil
}

func TestDedupeBooks_CaseAndWhitespaceInsensitive(t *testing.T) {
	rows := []BookRow{
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "dune ", Author: "frank  herbert"},
		{Title: "Dune Messiah", Author: "Frank Herbert"},
	}

	deduped := DedupeBooks(rows)
	require.Len(t, deduped, 2)
	assert.Equal(t, "Dune", deduped[0].Title)
	assert.Equal(t, "Dune Messiah", deduped[1].Title)
}

func TestDedupeStudents_ByEmail(t *testing.T) {
	rows := []StudentRow{
		{FullName: "Asha Patil", Email: "asha@college.edu"},
		{FullName: "A. Patil", Email: "ASHA@college.edu"},
		{FullName: "No Email One"},
		{FullName: "No Email Two"},
	}

	deduped := DedupeStudents(rows)
	assert.Len(t, deduped, 3)
}

func TestPipeline_PrepareBooks_ReportsExistingAsSkips(t *testing.T) {
	lookup := &mockLookup{isbns: map[string]bool{"9780441013593": true}}
	pipeline := NewPipeline(lookup)

	rows := []BookRow{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"},
		{Title: "Neuromancer", Author: "William Gibson", ISBN: "9780441569564"},
		{Title: "dune", Author: "Frank  Herbert", ISBN: "9780441013593"},
	}

	accepted, summary, err := pipeline.PrepareBooks(rows)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Extracted)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.AlreadyExists)
	assert.Equal(t, 1, summary.Accepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, "Neuromancer", accepted[0].Title)
	require.Len(t, summary.Skipped, 1)
	assert.Contains(t, summary.Skipped[0], "Dune")
}

func TestPipeline_PrepareStudents_ReportsExistingAsSkips(t *testing.T) {
	lookup := &mockLookup{emails: map[string]bool{"asha@college.edu": true}}
	pipeline := NewPipeline(lookup)

	rows := []StudentRow{
		{FullName: "Asha Patil", Email: "asha@college.edu"},
		{FullName: "Ravi Kumar", Email: "ravi@college.edu"},
	}

	accepted, summary, err := pipeline.PrepareStudents(rows)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.AlreadyExists)
	require.Len(t, accepted, 1)
	assert.Equal(t, "Ravi Kumar", accepted[0].FullName)
}

func TestPipeline_NilLookupSkipsExistenceCheck(t *testing.T) {
	pipeline := NewPipeline(nil)

	rows := []BookRow{{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"}}
	accepted, summary, err := pipeline.PrepareBooks(rows)
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
	assert.Equal(t, 0, summary.AlreadyExists)
}

func TestPipeline_EmptyDocumentIsNotAnError(t *testing.T) {
	pipeline := NewPipeline(nil)

	accepted, summary, err := pipeline.PrepareBooks(nil)
	require.NoError(t, err)
	assert.Empty(t, accepted)
	assert.Equal(t, 0, summary.Extracted)
}
