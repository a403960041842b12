package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_StudentPayload(t *testing.T) {
	payload := `{"student_id":"42","student_number":"PRN2023001","email":"asha@college.edu","full_name":"Asha Patil"}`

	rec, ok := Detect(payload)
	require.True(t, ok)

	student, isStudent := rec.(StudentIdentity)
	require.True(t, isStudent)
	assert.Equal(t, "42", student.StudentID)
	assert.Equal(t, "PRN2023001", student.StudentNumber)
	assert.Equal(t, "asha@college.edu", student.Email)
	assert.Equal(t, "Asha Patil", student.FullName)
}

func TestDetect_StudentPayload_MissingFieldNeverPartial(t *testing.T) {
	// Dropping any one of the three core fields must demote the payload;
	// a partially filled student identity is unrepresentable.
	tests := []struct {
		name    string
		payload string
	}{
		{"missing student_id", `{"student_number":"PRN2023001","email":"asha@college.edu"}`},
		{"missing student_number", `{"student_id":"42","email":"asha@college.edu"}`},
		{"missing email", `{"student_id":"42","student_number":"PRN2023001"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Detect(tt.payload)
			if ok {
				_, isStudent := rec.(StudentIdentity)
				assert.False(t, isStudent)
			}
		})
	}
}

func TestDetect_BookPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"book_id only", `{"book_id":"17"}`},
		{"isbn only", `{"isbn":"9780441013593"}`},
		{"title only", `{"title":"Dune"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Detect(tt.payload)
			require.True(t, ok)
			_, isBook := rec.(BookIdentity)
			assert.True(t, isBook)
		})
	}
}

func TestDetect_Opaque(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"plain text", "LIB-BOOK-000123"},
		{"broken json", `{"student_id": "42", `},
		{"structured but unrecognized", `{"foo":"bar"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Detect(tt.payload)
			assert.False(t, ok)
			assert.Nil(t, rec)
		})
	}
}

func TestDetect_StudentPayload_IssuedAt(t *testing.T) {
	payload := `{"student_id":"42","student_number":"PRN2023001","email":"asha@college.edu","issued_at":"2026-06-15T10:00:00Z"}`

	rec, ok := Detect(payload)
	require.True(t, ok)

	student := rec.(StudentIdentity)
	assert.Equal(t, 2026, student.IssuedAt.Year())
}
