package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/config"
	"github.com/granthpal/libscan/internal/database"
	auditrepo "github.com/granthpal/libscan/internal/database/audit"
	"github.com/granthpal/libscan/internal/database/books"
	"github.com/granthpal/libscan/internal/database/students"
	"github.com/granthpal/libscan/internal/importers"
)

// ImportStudentsCommand imports a student roster document (CSV or PDF)
// into the local database.
type ImportStudentsCommand struct {
	FilePath     string
	DatabasePath string
	Format       string
	Verbose      bool
	DryRun       bool
}

func NewImportStudentsCommand() *ImportStudentsCommand {
	return &ImportStudentsCommand{}
}

func (cmd *ImportStudentsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-students", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the roster document, CSV or PDF (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Format, "format", "", "Document format: csv or pdf (default: from file extension)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-students -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a student roster from a CSV or PDF document.\n\n")
		fmt.Fprintf(os.Stderr, "CSV rosters need name, program, division and roll number columns; header\n")
		fmt.Fprintf(os.Stderr, "spellings are matched loosely. PDF rosters are scanned for name/email pairs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-students -file roster.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-students -file admissions.pdf -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	if cmd.Format == "" {
		cmd.Format = filepath.Ext(cmd.FilePath)
	}

	return nil
}

func (cmd *ImportStudentsCommand) Run() error {
	fmt.Println("Student Roster Import")
	fmt.Println("=====================")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	format, err := importers.ParseFormat(cmd.Format)
	if err != nil {
		return err
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat document: %w", err)
	}

	fmt.Printf("File: %s (%s)\n", cmd.FilePath, format)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := importers.NewService(
		books.NewRepository(db.DB),
		students.NewRepository(db.DB),
		audit.NewService(auditrepo.NewRepository(db.DB)),
	)

	if cmd.DryRun {
		accepted, summary, softErrors, err := service.PreviewStudents(file, info.Size(), format)
		if err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}
		printImportSummary(summary, softErrors)
		if cmd.Verbose {
			fmt.Println("\n=== Students To Import ===")
			for i, row := range accepted {
				fmt.Printf("%d. %s <%s>\n", i+1, row.FullName, row.Email)
			}
		}
		fmt.Printf("\nWould import %d students\n", len(accepted))
		return nil
	}

	result, err := service.ImportStudents(file, info.Size(), format, "cli")
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	printImportSummary(result.Summary, result.Errors)
	fmt.Printf("\nImported %d students\n", result.Created)
	return nil
}
