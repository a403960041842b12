package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/granthpal/libscan/internal/importers"
	"github.com/granthpal/libscan/internal/tasks"
)

// ImportController handles catalog and roster document uploads. Small
// uploads are processed inline; with async=true the document is spooled
// to disk and handed to the task queue instead.
type ImportController struct {
	service    *importers.Service
	taskClient *tasks.Client

	maxUploadBytes int64
	spoolDir       string
}

func NewImportController(service *importers.Service, taskClient *tasks.Client, maxUploadBytes int64, spoolDir string) *ImportController {
	return &ImportController{
		service:        service,
		taskClient:     taskClient,
		maxUploadBytes: maxUploadBytes,
		spoolDir:       spoolDir,
	}
}

type ImportResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Result  *importers.Result `json:"result,omitempty"`

	// Async enqueue response
	Queued  bool     `json:"queued,omitempty"`
	TaskIDs []string `json:"task_ids,omitempty"`
}

// ImportBooks handles POST /api/import/books.
func (ic *ImportController) ImportBooks(ctx *gin.Context) {
	ic.importDocument(ctx, "books")
}

// ImportStudents handles POST /api/import/students.
func (ic *ImportController) ImportStudents(ctx *gin.Context) {
	ic.importDocument(ctx, "students")
}

func (ic *ImportController) importDocument(ctx *gin.Context, kind string) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ImportResponse{Error: "no document provided"})
		return
	}

	if ic.maxUploadBytes > 0 && fileHeader.Size > ic.maxUploadBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, ImportResponse{
			Error: fmt.Sprintf("document exceeds %d byte limit", ic.maxUploadBytes),
		})
		return
	}

	formatValue := ctx.PostForm("format")
	if formatValue == "" {
		formatValue = filepath.Ext(fileHeader.Filename)
	}
	format, err := importers.ParseFormat(formatValue)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ImportResponse{Error: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ImportResponse{Error: "could not open document"})
		return
	}
	defer file.Close()

	if ctx.Query("async") == "true" && ic.taskClient != nil {
		ic.enqueueImport(ctx, kind, format, file)
		return
	}

	var result importers.Result
	switch kind {
	case "books":
		result, err = ic.service.ImportBooks(file, fileHeader.Size, format, "http")
	case "students":
		result, err = ic.service.ImportStudents(file, fileHeader.Size, format, "http")
	}
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ImportResponse{
			Error: fmt.Sprintf("failed to parse document: %v", err),
		})
		return
	}

	ctx.JSON(http.StatusOK, ImportResponse{Success: true, Result: &result})
}

// enqueueImport spools the upload to local disk and hands it to the task
// queue. The processor removes the spooled file once the import succeeds.
func (ic *ImportController) enqueueImport(ctx *gin.Context, kind string, format importers.Format, file io.Reader) {
	if err := os.MkdirAll(ic.spoolDir, 0o755); err != nil {
		ctx.JSON(http.StatusInternalServerError, ImportResponse{Error: "could not spool document"})
		return
	}

	spooled, err := os.CreateTemp(ic.spoolDir, "import-"+kind+"-*."+string(format))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ImportResponse{Error: "could not spool document"})
		return
	}
	if _, err := io.Copy(spooled, file); err != nil {
		spooled.Close()
		os.Remove(spooled.Name())
		ctx.JSON(http.StatusInternalServerError, ImportResponse{Error: "could not spool document"})
		return
	}
	spooled.Close()

	ids, err := ic.taskClient.Add(tasks.ImportDocumentTask{
		Kind:   kind,
		Format: string(format),
		Path:   spooled.Name(),
		Source: "http",
	}).Save()
	if err != nil {
		os.Remove(spooled.Name())
		ctx.JSON(http.StatusInternalServerError, ImportResponse{Error: "could not enqueue import"})
		return
	}

	ctx.JSON(http.StatusAccepted, ImportResponse{Success: true, Queued: true, TaskIDs: ids})
}
