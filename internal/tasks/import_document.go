package tasks

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/granthpal/libscan/internal/importers"
)

// ImportDocumentTask processes one uploaded roster or catalog document in
// the background. The document is spooled to Path by the enqueuer and
// removed once the import succeeds.
type ImportDocumentTask struct {
	// Kind is "books" or "students".
	Kind string `json:"kind"`

	// Format is "csv" or "pdf".
	Format string `json:"format"`

	// Path is the spooled document on local disk.
	Path string `json:"path"`

	// Source names the upload origin for the audit trail, e.g. "http" or "cli".
	Source string `json:"source"`
}

// Config returns the queue configuration for document import tasks.
func (t ImportDocumentTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_document",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportDocumentProcessor creates a processor function for ImportDocumentTask.
func ImportDocumentProcessor(service *importers.Service) backlite.QueueProcessor[ImportDocumentTask] {
	return func(ctx context.Context, task ImportDocumentTask) error {
		if service == nil {
			return fmt.Errorf("import service not configured")
		}

		format, err := importers.ParseFormat(task.Format)
		if err != nil {
			return err
		}

		file, err := os.Open(task.Path)
		if err != nil {
			return fmt.Errorf("open spooled document: %w", err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("stat spooled document: %w", err)
		}

		var result importers.Result
		switch task.Kind {
		case "books":
			result, err = service.ImportBooks(file, info.Size(), format, task.Source)
		case "students":
			result, err = service.ImportStudents(file, info.Size(), format, task.Source)
		default:
			return fmt.Errorf("unknown import kind %q", task.Kind)
		}
		if err != nil {
			return fmt.Errorf("import %s from %s: %w", task.Kind, task.Path, err)
		}

		log.Printf("[TASK] Imported %d %s from %s (%d extracted, %d skipped)",
			result.Created, task.Kind, task.Path,
			result.Summary.Extracted, len(result.Summary.Skipped))

		if err := os.Remove(task.Path); err != nil {
			log.Printf("[TASK] Could not remove spooled document %s: %v", task.Path, err)
		}
		return nil
	}
}

// NewImportDocumentQueue creates a backlite queue for document import tasks.
func NewImportDocumentQueue(service *importers.Service) backlite.Queue {
	return backlite.NewQueue(ImportDocumentProcessor(service))
}
