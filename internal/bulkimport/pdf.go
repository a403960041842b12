package bulkimport

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/granthpal/libscan/internal/scan"
)

// Fragment is one piece of a PDF page's text layer: a string plus a flag
// marking the end of a visual line.
type Fragment struct {
	Text string
	EOL  bool
}

var (
	isbnTokenPattern = regexp.MustCompile(`(?:97[89][- ]?)?\d[\d- ]{7,15}[\dXx]`)
	yearPattern      = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
	emailPattern     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// "Dune by Frank Herbert" — the word boundary matters so authors
	// named "Colby" survive.
	byPattern = regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`)
)

// LinesFromFragments reconstructs visual lines from text-layer fragments
// using their end-of-line markers.
func LinesFromFragments(frags []Fragment) []string {
	var lines []string
	var current strings.Builder

	for _, f := range frags {
		current.WriteString(f.Text)
		if f.EOL {
			lines = append(lines, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		lines = append(lines, strings.TrimSpace(current.String()))
	}
	return lines
}

// SplitLines turns raw document text into trimmed lines.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSpace(l))
	}
	return lines
}

// splitBlocks groups lines into candidate record blocks separated by
// blank lines. Documents without blank-line separation are grouped by
// their labels instead; only when no line carries a recognizable label
// does the grouping fall back to one block per non-empty line.
func splitBlocks(lines []string) [][]string {
	hasBlank := false
	for _, l := range lines {
		if l == "" {
			hasBlank = true
			break
		}
	}

	if !hasBlank {
		return splitUnseparated(lines)
	}

	var blocks [][]string
	var current []string
	for _, l := range lines {
		if l == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// splitUnseparated handles documents whose text layer yields no blank
// lines, which is how most PDF extraction arrives here. Labeled lists
// open a new record at every title label; unlabeled lists become one
// candidate block per line.
func splitUnseparated(lines []string) [][]string {
	labeled := false
	for _, l := range lines {
		if _, ok := lineBookField(l); ok {
			labeled = true
			break
		}
	}

	var blocks [][]string
	if !labeled {
		for _, l := range lines {
			if l != "" {
				blocks = append(blocks, []string{l})
			}
		}
		return blocks
	}

	var current []string
	for _, l := range lines {
		if l == "" {
			continue
		}
		if field, ok := lineBookField(l); ok && field == "title" && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// lineBookField reports the logical book field a "label: value" line
// resolves to.
func lineBookField(line string) (string, bool) {
	label, _, ok := splitLabelValue(line)
	if !ok {
		return "", false
	}
	return matchLabel(bookLabelAliases, label)
}

// ExtractBooks scans reconstructed document lines for book records:
// labeled extraction first, opportunistic ISBN/year tokens next, then
// the title/author fallback heuristics. Blocks yielding no title are
// dropped.
func ExtractBooks(lines []string) []BookRow {
	var rows []BookRow
	for _, block := range splitBlocks(lines) {
		if row, ok := extractBookFromBlock(block); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func extractBookFromBlock(block []string) (BookRow, bool) {
	row := BookRow{TotalCopies: 1}
	var unlabeled []string

	for _, line := range block {
		label, value, ok := splitLabelValue(line)
		if !ok {
			unlabeled = append(unlabeled, line)
			continue
		}
		field, known := matchLabel(bookLabelAliases, label)
		if !known {
			unlabeled = append(unlabeled, line)
			continue
		}
		applyBookField(&row, field, value)
	}

	blockText := strings.Join(block, "\n")

	if row.ISBN == "" {
		for _, token := range isbnTokenPattern.FindAllString(blockText, -1) {
			if scan.LooksLikeISBN(token) {
				row.ISBN = scan.NormalizeCode(token)
				// Keep year matching away from the ISBN digits.
				blockText = strings.Replace(blockText, token, "", 1)
				break
			}
		}
	}
	if row.PublicationYear == 0 {
		if m := yearPattern.FindString(blockText); m != "" {
			row.PublicationYear, _ = strconv.Atoi(m)
		}
	}

	if row.Title == "" {
		applyTitleAuthorFallback(&row, unlabeled)
	}

	if row.Title == "" {
		return BookRow{}, false
	}
	if row.Author == "" {
		row.Author = "Unknown"
	}
	return row, true
}

func applyBookField(row *BookRow, field, value string) {
	if value == "" {
		return
	}
	switch field {
	case "title":
		row.Title = value
	case "author":
		row.Author = value
	case "isbn":
		if scan.LooksLikeISBN(value) {
			row.ISBN = scan.NormalizeCode(value)
		}
	case "publisher":
		row.Publisher = value
	case "category":
		row.Category = value
	case "publication_year":
		if y, err := strconv.Atoi(value); err == nil {
			row.PublicationYear = y
		}
	case "total_copies":
		if c, err := strconv.Atoi(value); err == nil && c > 0 {
			row.TotalCopies = c
		}
	case "shelf_location":
		row.ShelfLocation = value
	case "description":
		row.Description = value
	}
}

// applyTitleAuthorFallback covers blocks without usable labels: split the
// first line on "X by Y", else first line is the title and the second
// the author.
func applyTitleAuthorFallback(row *BookRow, unlabeled []string) {
	if len(unlabeled) == 0 {
		return
	}

	first := unlabeled[0]
	if m := byPattern.FindStringSubmatch(first); m != nil {
		if row.Title == "" {
			row.Title = strings.TrimSpace(m[1])
		}
		if row.Author == "" {
			row.Author = strings.TrimSpace(m[2])
		}
		return
	}

	row.Title = first
	if row.Author == "" && len(unlabeled) > 1 {
		row.Author = unlabeled[1]
	}
}

// splitLabelValue splits a "label: value" line on the first colon.
func splitLabelValue(line string) (label, value string, ok bool) {
	idx := strings.IndexAny(line, ":：")
	if idx < 0 {
		return "", "", false
	}
	_, size := utf8.DecodeRuneInString(line[idx:])
	label = normalizeLabel(line[:idx])
	value = strings.TrimSpace(line[idx+size:])
	if label == "" {
		return "", "", false
	}
	return label, value, true
}

// ExtractStudents scans document lines for student contacts. Student
// lists rarely carry structured labels, so extraction keys off
// email-shaped tokens: the name is whatever precedes the email on the
// same line (truncated at common separators), falling back to a display
// name derived from the email's local part.
func ExtractStudents(lines []string) []StudentRow {
	var rows []StudentRow
	for _, line := range lines {
		for _, email := range emailPattern.FindAllString(line, -1) {
			name := namePrefixBeforeEmail(line, email)
			if name == "" {
				name = nameFromLocalPart(email)
			}
			rows = append(rows, StudentRow{
				FullName: name,
				Email:    strings.ToLower(email),
			})
		}
	}
	return rows
}

func namePrefixBeforeEmail(line, email string) string {
	idx := strings.Index(line, email)
	if idx <= 0 {
		return ""
	}
	prefix := line[:idx]

	// Truncate at the last separator so "12 - Asha Patil asha@..." keeps
	// only the name-like tail.
	if cut := strings.LastIndexAny(prefix, "-,|"); cut >= 0 {
		prefix = prefix[cut+1:]
	}
	return strings.TrimSpace(prefix)
}

func nameFromLocalPart(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.Map(func(r rune) rune {
		switch r {
		case '.', '_', '-', '+':
			return ' '
		}
		return r
	}, local)
	return strings.TrimSpace(strings.Join(strings.Fields(local), " "))
}
