package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOpaque_ISBN13(t *testing.T) {
	rec := ClassifyOpaque("978-0-441-01359-3")

	book, ok := rec.(BookIdentity)
	require.True(t, ok)
	assert.Equal(t, "9780441013593", book.ISBN)
	assert.Equal(t, "978-0-441-01359-3", book.RawText)
}

func TestClassifyOpaque_ISBN13_WrongShapeRejected(t *testing.T) {
	// Same length, but the 978/979 prefix requirement fails.
	rec := ClassifyOpaque("9770441013593")

	generic, ok := rec.(GenericCode)
	require.True(t, ok)
	assert.Equal(t, ClassUnknown, generic.Assumed)
}

func TestClassifyOpaque_ISBN10(t *testing.T) {
	tests := []struct {
		name string
		text string
		isbn string
	}{
		{"plain", "0441013593", "0441013593"},
		{"check character X", "043942089X", "043942089X"},
		{"hyphenated", "0-439-42089-X", "043942089X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, ok := ClassifyOpaque(tt.text).(BookIdentity)
			require.True(t, ok)
			assert.Equal(t, tt.isbn, book.ISBN)
		})
	}
}

func TestClassifyOpaque_GenericCode(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"alphanumeric code", "LIB-BOOK-000123"},
		{"too many digits", "97804410135931"},
		{"letters in the middle", "97804A1013593"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generic, ok := ClassifyOpaque(tt.text).(GenericCode)
			require.True(t, ok)
			assert.Equal(t, ClassUnknown, generic.Assumed)
		})
	}
}

func TestClassifyOpaque_ShortTextNeverISBNTested(t *testing.T) {
	// Shorter than the minimum length: always generic, even digit-only.
	generic, ok := ClassifyOpaque("1234567").(GenericCode)
	require.True(t, ok)
	assert.Equal(t, "1234567", generic.RawText)
}

func TestClassify_Cascade(t *testing.T) {
	// Structured payloads win over the opaque classifier.
	rec := Classify(`{"isbn":"9780441013593"}`)
	book, ok := rec.(BookIdentity)
	require.True(t, ok)
	assert.Equal(t, "9780441013593", book.ISBN)

	// Opaque ISBN-shaped text still lands on BookIdentity.
	_, ok = Classify("9780441013593").(BookIdentity)
	assert.True(t, ok)

	// Everything else is generic.
	_, ok = Classify("hello world").(GenericCode)
	assert.True(t, ok)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "9780441013593", NormalizeCode("978-0-441-01359-3"))
	assert.Equal(t, "9780441013593", NormalizeCode("978 0441 013593"))
}

func TestLooksLikeISBN(t *testing.T) {
	assert.True(t, LooksLikeISBN("9780441013593"))
	assert.True(t, LooksLikeISBN("978-0-441-01359-3"))
	assert.True(t, LooksLikeISBN("0441013593"))
	assert.False(t, LooksLikeISBN("12345"))
	assert.False(t, LooksLikeISBN("LIB-BOOK-000123"))
}
