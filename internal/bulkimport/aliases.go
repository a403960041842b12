package bulkimport

import "strings"

// CSV header aliases per logical field. Headers are normalized (BOM and
// whitespace stripped, lowercased, spaces folded to underscores) before
// matching, so "Book Title" and "book_title" both land on title.
var bookCSVAliases = map[string][]string{
	"title":            {"title", "book_title"},
	"author":           {"author", "authors", "author1"},
	"isbn":             {"isbn"},
	"publisher":        {"publisher"},
	"category":         {"category"},
	"publication_year": {"publication_year", "year", "published_year"},
	"total_copies":     {"total_copies", "copies", "stock"},
	"shelf_location":   {"location_shelf", "shelf", "location"},
	"description":      {"description", "summary"},
}

var studentCSVAliases = map[string][]string{
	"full_name":      {"full_name", "name", "student_name"},
	"email":          {"email", "email_id", "email_address"},
	"course_level":   {"course_level", "course", "level"},
	"program":        {"program", "branch", "department"},
	"year":           {"year", "class", "class_year"},
	"division":       {"division", "div", "section"},
	"roll_number":    {"roll_number", "roll_no", "roll"},
	"student_number": {"student_number", "prn", "prn_number", "enrollment_no"},
}

// PDF label aliases. Book lists from regional colleges carry labels in
// English, Marathi or Hindi; this table is data, extending it covers new
// label spellings without touching the extraction code.
var bookLabelAliases = map[string][]string{
	"title":            {"title", "book title", "name of book", "पुस्तक", "पुस्तकाचे नाव", "शीर्षक", "ग्रंथ", "किताब"},
	"author":           {"author", "authors", "written by", "लेखक", "लेखकाचे नाव", "लेखिका"},
	"isbn":             {"isbn"},
	"publisher":        {"publisher", "publication", "प्रकाशक", "प्रकाशन"},
	"category":         {"category", "subject", "genre", "विषय", "वर्ग", "श्रेणी"},
	"publication_year": {"publication year", "year", "वर्ष", "प्रकाशन वर्ष"},
	"total_copies":     {"copies", "total copies", "no of copies", "प्रती", "प्रति", "प्रतियां"},
	"shelf_location":   {"shelf", "location", "shelf location", "rack", "कपाट", "शेल्फ", "रॅक"},
	"description":      {"description", "summary", "वर्णन", "सारांश"},
}

// normalizeHeader prepares a CSV header cell for alias matching.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// normalizeLabel prepares a PDF label for alias matching. Devanagari is
// unaffected by lowercasing, so one path serves both scripts.
func normalizeLabel(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	return strings.Join(strings.Fields(l), " ")
}

// matchLabel resolves a normalized label against an alias table,
// returning the logical field name.
func matchLabel(aliases map[string][]string, label string) (string, bool) {
	for field, names := range aliases {
		for _, name := range names {
			if label == name {
				return field, true
			}
		}
	}
	return "", false
}
