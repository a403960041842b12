package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/barcode"
	"github.com/granthpal/libscan/internal/scan"
)

// ScanController classifies raw scan payloads and decodes barcode images
// uploaded from devices without a wedge scanner.
type ScanController struct {
	decoder      *barcode.ImageDecoder
	auditService *audit.Service
}

func NewScanController(decoder *barcode.ImageDecoder, auditService *audit.Service) *ScanController {
	return &ScanController{
		decoder:      decoder,
		auditService: auditService,
	}
}

type ClassifyRequest struct {
	Payload string `json:"payload" binding:"required"`
	Mode    string `json:"mode"`
}

// RecordView is the JSON shape of a classified record. Exactly one of
// Student, Book and Generic is set, matching Type.
type RecordView struct {
	Type    string       `json:"type"`
	Student *StudentView `json:"student,omitempty"`
	Book    *BookView    `json:"book,omitempty"`
	Generic *GenericView `json:"generic,omitempty"`
}

type StudentView struct {
	StudentID     string `json:"student_id"`
	StudentNumber string `json:"student_number"`
	Email         string `json:"email"`
	FullName      string `json:"full_name,omitempty"`
	IssuedAt      string `json:"issued_at,omitempty"`
}

type BookView struct {
	BookID  string `json:"book_id,omitempty"`
	ISBN    string `json:"isbn,omitempty"`
	Title   string `json:"title,omitempty"`
	RawText string `json:"raw_text,omitempty"`
}

type GenericView struct {
	RawText string `json:"raw_text"`
	Assumed string `json:"assumed"`
}

type ClassifyResponse struct {
	Accepted bool        `json:"accepted"`
	Reason   string      `json:"reason,omitempty"`
	Record   *RecordView `json:"record,omitempty"`
}

func newRecordView(record scan.Record) *RecordView {
	switch rec := record.(type) {
	case scan.StudentIdentity:
		view := &RecordView{Type: "student", Student: &StudentView{
			StudentID:     rec.StudentID,
			StudentNumber: rec.StudentNumber,
			Email:         rec.Email,
			FullName:      rec.FullName,
		}}
		if !rec.IssuedAt.IsZero() {
			view.Student.IssuedAt = rec.IssuedAt.Format(time.RFC3339)
		}
		return view
	case scan.BookIdentity:
		return &RecordView{Type: "book", Book: &BookView{
			BookID:  rec.BookID,
			ISBN:    rec.ISBN,
			Title:   rec.Title,
			RawText: rec.RawText,
		}}
	case scan.GenericCode:
		return &RecordView{Type: "generic", Generic: &GenericView{
			RawText: rec.RawText,
			Assumed: string(rec.Assumed),
		}}
	default:
		return nil
	}
}

func parseMode(s string) (scan.Mode, bool) {
	switch s {
	case "", string(scan.ModeEither):
		return scan.ModeEither, true
	case string(scan.ModeStudent):
		return scan.ModeStudent, true
	case string(scan.ModeBook):
		return scan.ModeBook, true
	default:
		return "", false
	}
}

// Classify handles POST /api/scan/classify: classify a raw payload and
// guard it against the expected mode.
func (sc *ScanController) Classify(ctx *gin.Context) {
	var req ClassifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "payload is required"})
		return
	}

	mode, ok := parseMode(req.Mode)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "mode must be student, book or either"})
		return
	}

	decision := scan.Guard(scan.Classify(req.Payload), mode)
	sc.logDecision(string(scan.ChannelManual), decision)

	if !decision.Accepted {
		ctx.JSON(http.StatusUnprocessableEntity, ClassifyResponse{
			Accepted: false,
			Reason:   decision.Reason,
		})
		return
	}

	ctx.JSON(http.StatusOK, ClassifyResponse{
		Accepted: true,
		Record:   newRecordView(decision.Record),
	})
}

// DecodeImage handles POST /api/scan/image: decode a barcode from an
// uploaded photo, then classify the decoded text.
func (sc *ScanController) DecodeImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no image provided"})
		return
	}

	mode, ok := parseMode(ctx.PostForm("mode"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "mode must be student, book or either"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not open image"})
		return
	}
	defer file.Close()

	text, err := sc.decoder.Decode(file)
	if err != nil {
		if sc.auditService != nil {
			sc.auditService.LogScan(string(scan.ChannelFileDecode), "could not read barcode", false)
		}
		status := http.StatusUnprocessableEntity
		if !errors.Is(err, barcode.ErrNoCode) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{"error": "could not read barcode"})
		return
	}

	decision := scan.Guard(scan.Classify(text), mode)
	sc.logDecision(string(scan.ChannelFileDecode), decision)

	if !decision.Accepted {
		ctx.JSON(http.StatusUnprocessableEntity, ClassifyResponse{
			Accepted: false,
			Reason:   decision.Reason,
		})
		return
	}

	ctx.JSON(http.StatusOK, ClassifyResponse{
		Accepted: true,
		Record:   newRecordView(decision.Record),
	})
}

func (sc *ScanController) logDecision(channel string, decision scan.Decision) {
	if sc.auditService == nil {
		return
	}
	description := decision.Reason
	if decision.Accepted {
		if view := newRecordView(decision.Record); view != nil {
			description = "classified as " + view.Type
		}
	}
	sc.auditService.LogScan(channel, description, decision.Accepted)
}
