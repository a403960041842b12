package bulkimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseBookCSV parses an uploaded book list with a header row. It returns
// the materialized rows, per-line soft errors, and a fatal error only
// when the document itself is unusable (unreadable header, missing
// required columns).
func ParseBookCSV(r io.Reader) ([]BookRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := buildHeaderIndex(header)

	for _, required := range []string{"title", "author"} {
		if _, ok := resolveColumn(headerIndex, bookCSVAliases[required]); !ok {
			return nil, nil, fmt.Errorf("missing required header: %s", required)
		}
	}

	var rows []BookRow
	var softErrors []string
	lineNum := 1 // Header already consumed

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			softErrors = append(softErrors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		row := BookRow{
			Title:         getAliasedValue(record, headerIndex, bookCSVAliases["title"]),
			Author:        getAliasedValue(record, headerIndex, bookCSVAliases["author"]),
			ISBN:          getAliasedValue(record, headerIndex, bookCSVAliases["isbn"]),
			Publisher:     getAliasedValue(record, headerIndex, bookCSVAliases["publisher"]),
			Category:      getAliasedValue(record, headerIndex, bookCSVAliases["category"]),
			ShelfLocation: getAliasedValue(record, headerIndex, bookCSVAliases["shelf_location"]),
			Description:   getAliasedValue(record, headerIndex, bookCSVAliases["description"]),
			TotalCopies:   1,
		}

		if year := getAliasedValue(record, headerIndex, bookCSVAliases["publication_year"]); year != "" {
			if y, err := strconv.Atoi(year); err == nil {
				row.PublicationYear = y
			}
		}
		if copies := getAliasedValue(record, headerIndex, bookCSVAliases["total_copies"]); copies != "" {
			if c, err := strconv.Atoi(copies); err == nil && c > 0 {
				row.TotalCopies = c
			}
		}

		if !row.Valid() {
			softErrors = append(softErrors, fmt.Sprintf("Line %d: skipped - missing title or author", lineNum))
			continue
		}

		rows = append(rows, row)
	}

	return rows, softErrors, nil
}

// ParseStudentCSV parses an uploaded student list with a header row.
func ParseStudentCSV(r io.Reader) ([]StudentRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := buildHeaderIndex(header)

	for _, required := range []string{"full_name", "program", "division", "roll_number"} {
		if _, ok := resolveColumn(headerIndex, studentCSVAliases[required]); !ok {
			return nil, nil, fmt.Errorf("missing required header: %s", required)
		}
	}

	var rows []StudentRow
	var softErrors []string
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			softErrors = append(softErrors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		row := StudentRow{
			FullName:      getAliasedValue(record, headerIndex, studentCSVAliases["full_name"]),
			Email:         strings.ToLower(getAliasedValue(record, headerIndex, studentCSVAliases["email"])),
			CourseLevel:   getAliasedValue(record, headerIndex, studentCSVAliases["course_level"]),
			Program:       getAliasedValue(record, headerIndex, studentCSVAliases["program"]),
			Year:          getAliasedValue(record, headerIndex, studentCSVAliases["year"]),
			Division:      getAliasedValue(record, headerIndex, studentCSVAliases["division"]),
			RollNumber:    getAliasedValue(record, headerIndex, studentCSVAliases["roll_number"]),
			StudentNumber: getAliasedValue(record, headerIndex, studentCSVAliases["student_number"]),
		}

		if !row.Valid() {
			softErrors = append(softErrors, fmt.Sprintf("Line %d: skipped - missing name, program, division or roll number", lineNum))
			continue
		}

		rows = append(rows, row)
	}

	return rows, softErrors, nil
}

func buildHeaderIndex(header []string) map[string]int {
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[normalizeHeader(h)] = i
	}
	return headerIndex
}

// resolveColumn finds the index of the first alias present in the header.
func resolveColumn(headerIndex map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if idx, ok := headerIndex[alias]; ok {
			return idx, true
		}
	}
	return 0, false
}

func getAliasedValue(record []string, headerIndex map[string]int, aliases []string) string {
	if idx, ok := resolveColumn(headerIndex, aliases); ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
