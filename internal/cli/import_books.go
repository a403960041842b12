// Package cli implements the command-line subcommands: bulk document
// imports and one-off payload classification.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/granthpal/libscan/internal/audit"
	"github.com/granthpal/libscan/internal/bulkimport"
	"github.com/granthpal/libscan/internal/config"
	"github.com/granthpal/libscan/internal/database"
	auditrepo "github.com/granthpal/libscan/internal/database/audit"
	"github.com/granthpal/libscan/internal/database/books"
	"github.com/granthpal/libscan/internal/database/students"
	"github.com/granthpal/libscan/internal/importers"
)

// ImportBooksCommand imports a book catalog document (CSV or PDF) into
// the local database.
type ImportBooksCommand struct {
	FilePath     string
	DatabasePath string
	Format       string
	Verbose      bool
	DryRun       bool
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{}
}

func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-books", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the catalog document, CSV or PDF (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Format, "format", "", "Document format: csv or pdf (default: from file extension)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a book catalog from a CSV or PDF document.\n\n")
		fmt.Fprintf(os.Stderr, "CSV headers are matched loosely (Title/book_title, Author/authors, Copies/stock\n")
		fmt.Fprintf(os.Stderr, "and so on). PDF extraction handles labeled lists in English, Marathi and Hindi.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -file catalog.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-books -file donation-list.pdf -dry-run -verbose\n", os.Args[0])
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

func (cmd *ImportBooksCommand) Run() error {
	fmt.Println("Book Catalog Import")
	fmt.Println("===================")

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
		accepted, summary, softErrors, err := service.PreviewBooks(file, info.Size(), format)
		if err != nil {
			return fmt.Errorf("failed to parse document: %w", err)
		}
		printImportSummary(summary, softErrors)
		if cmd.Verbose {
			fmt.Println("\n=== Books To Import ===")
			for i, row := range accepted {
				fmt.Printf("%d. %q by %s (copies: %d)\n", i+1, row.Title, row.Author, row.TotalCopies)
			}
		}
		fmt.Printf("\nWould import %d books\n", len(accepted))
		return nil
	}

	result, err := service.ImportBooks(file, info.Size(), format, "cli")
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	printImportSummary(result.Summary, result.Errors)
	fmt.Printf("\nImported %d books\n", result.Created)
	return nil
}

func printImportSummary(summary bulkimport.Summary, softErrors []string) {
	fmt.Printf("\nExtracted: %d\n", summary.Extracted)
	fmt.Printf("Duplicates in document: %d\n", summary.Duplicates)
	fmt.Printf("Already in database: %d\n", summary.AlreadyExists)
	fmt.Printf("Accepted: %d\n", summary.Accepted)

	if len(softErrors) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(softErrors))
		for _, msg := range softErrors {
			fmt.Printf("  %s\n", msg)
		}
	}
}
