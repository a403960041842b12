package bulkimport

import "strings"

// compositeKey normalizes a dedupe key part: lowercased with inner
// whitespace collapsed, so incidental spacing differences never produce
// two rows.
func compositeKey(parts ...string) string {
	normalized := make([]string, 0, len(parts))
	for _, p := range parts {
		normalized = append(normalized, strings.Join(strings.Fields(strings.ToLower(p)), " "))
	}
	return strings.Join(normalized, "|")
}

// DedupeBooks removes document-local duplicates by case-insensitive
// title+author. First occurrence wins.
func DedupeBooks(rows []BookRow) []BookRow {
	seen := make(map[string]bool)
	out := make([]BookRow, 0, len(rows))
	for _, row := range rows {
		key := compositeKey(row.Title, row.Author)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

// DedupeStudents removes document-local duplicates by email. Rows
// without an email have no usable key and are all kept.
func DedupeStudents(rows []StudentRow) []StudentRow {
	seen := make(map[string]bool)
	out := make([]StudentRow, 0, len(rows))
	for _, row := range rows {
		if row.Email == "" {
			out = append(out, row)
			continue
		}
		key := strings.ToLower(row.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}
