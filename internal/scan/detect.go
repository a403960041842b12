package scan

import (
	"encoding/json"
	"strings"
	"time"
)

// structuredPayload mirrors the wire shape of scannable digital IDs and
// book labels. A student ID carries student_id, student_number and email;
// a book label carries any of book_id, isbn, title.
type structuredPayload struct {
	StudentID     string `json:"student_id"`
	StudentNumber string `json:"student_number"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	IssuedAt      string `json:"issued_at"`

	BookID string `json:"book_id"`
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
}

// Detect attempts a structured parse of a raw payload. It returns the
// detected record and true when the payload is a recognized structured
// shape, or (nil, false) when it is opaque and should go through Classify.
// Parse failures never propagate; they mean opaque.
func Detect(payload string) (Record, bool) {
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var p structuredPayload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return nil, false
	}

	// A student identity requires all three core fields at once. A payload
	// missing any of them is never a partial student.
	if p.StudentID != "" && p.StudentNumber != "" && p.Email != "" {
		rec := StudentIdentity{
			StudentID:     p.StudentID,
			StudentNumber: p.StudentNumber,
			Email:         p.Email,
			FullName:      p.FullName,
		}
		if p.IssuedAt != "" {
			if t, err := time.Parse(time.RFC3339, p.IssuedAt); err == nil {
				rec.IssuedAt = t
			}
		}
		return rec, true
	}

	if p.BookID != "" || p.ISBN != "" || p.Title != "" {
		return BookIdentity{
			BookID:  p.BookID,
			ISBN:    p.ISBN,
			Title:   p.Title,
			RawText: payload,
		}, true
	}

	// Structured but unrecognized shape: treat as generic text downstream.
	return nil, false
}
