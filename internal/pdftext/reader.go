// Package pdftext wraps the external PDF text capability: given document
// bytes, produce the text-layer fragments the bulk extractor consumes.
package pdftext

import (
	"fmt"
	"io"
	"math"

	"github.com/ledongthuc/pdf"

	"github.com/granthpal/libscan/internal/bulkimport"
)

// Text items on the same visual line share a Y coordinate within this
// tolerance (PDF points).
const lineTolerance = 2.0

// Fragments extracts text-layer fragments from a PDF document, marking
// end-of-line wherever the vertical position changes. Malformed
// documents produce an error, never a panic.
func Fragments(ra io.ReaderAt, size int64) (frags []bulkimport.Fragment, err error) {
	defer func() {
		// The PDF parser panics on some malformed files.
		if r := recover(); r != nil {
			frags = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		frags = append(frags, pageFragments(page)...)
	}
	return frags, nil
}

func pageFragments(page pdf.Page) []bulkimport.Fragment {
	return fragmentsFromTexts(page.Content().Text)
}

// fragmentsFromTexts walks one page's text items in content order,
// inserting word gaps from horizontal spacing and line ends from Y
// changes.
func fragmentsFromTexts(texts []pdf.Text) []bulkimport.Fragment {
	frags := make([]bulkimport.Fragment, 0, len(texts))

	for i, t := range texts {
		text := t.S
		eol := true
		if i+1 < len(texts) {
			next := texts[i+1]
			eol = math.Abs(next.Y-t.Y) > lineTolerance
			if !eol && next.X-(t.X+t.W) > wordGap(t) {
				text += " "
			}
		}
		frags = append(frags, bulkimport.Fragment{Text: text, EOL: eol})
	}
	return frags
}

func wordGap(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.3
	}
	return 2.0
}

// Lines is a convenience for callers that want reconstructed lines
// directly.
func Lines(ra io.ReaderAt, size int64) ([]string, error) {
	frags, err := Fragments(ra, size)
	if err != nil {
		return nil, err
	}
	return bulkimport.LinesFromFragments(frags), nil
}
