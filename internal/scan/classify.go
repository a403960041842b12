package scan

import (
	"regexp"
	"strings"
)

// minClassifyLength is the shortest opaque payload the ISBN test is
// applied to. Anything shorter is a generic code unconditionally.
const minClassifyLength = 8

// ISBN-10, or ISBN-13 starting 978/979, with an optional trailing check
// character. Hyphens and whitespace are stripped before matching. The
// check digit arithmetic is deliberately not validated; shape is enough
// for routing a scan.
var isbnPattern = regexp.MustCompile(`^(?:\d{9}[\dXx]|97[89]\d{9}[\dXx]?)$`)

// NormalizeCode strips hyphens and whitespace from a scanned code.
func NormalizeCode(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, text)
}

// LooksLikeISBN reports whether text, once normalized, is ISBN-shaped.
func LooksLikeISBN(text string) bool {
	return isbnPattern.MatchString(NormalizeCode(text))
}

// ClassifyOpaque classifies an opaque payload that failed structured
// detection. ISBN-shaped codes become a BookIdentity; everything else is
// a GenericCode whose class the mode guard resolves from context.
// Pure and total.
func ClassifyOpaque(text string) Record {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= minClassifyLength {
		if normalized := NormalizeCode(trimmed); isbnPattern.MatchString(normalized) {
			return BookIdentity{ISBN: normalized, RawText: text}
		}
	}
	return GenericCode{RawText: trimmed, Assumed: ClassUnknown}
}

// Classify runs the full detection cascade over a raw payload:
// structured detection first, then the opaque classifier.
func Classify(payload string) Record {
	if rec, ok := Detect(payload); ok {
		return rec
	}
	return ClassifyOpaque(payload)
}
