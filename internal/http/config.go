package http

import (
	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/barcode"
	"github.com/granthpal/libscan/internal/database"
	"github.com/granthpal/libscan/internal/importers"
	"github.com/granthpal/libscan/internal/tasks"
	"github.com/granthpal/libscan/internal/workflow"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	ImportService *importers.Service
	Workflow      *workflow.Service
	AuditService  *audit.Service

	// Barcode image decoding
	Decoder *barcode.ImageDecoder

	// Task queue client (optional; enables async imports)
	TaskClient *tasks.Client

	// Upload limits and spooling
	MaxUploadBytes int64
	SpoolDir       string

	// Application info
	Version string
}
