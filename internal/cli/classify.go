package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/granthpal/libscan/internal/scan"
)

// ClassifyCommand classifies a single scan payload from the command
// line, useful for checking how a label or ID card will be routed.
type ClassifyCommand struct {
	Payload string
	Mode    string
}

func NewClassifyCommand() *ClassifyCommand {
	return &ClassifyCommand{}
}

func (cmd *ClassifyCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)

	fs.StringVar(&cmd.Payload, "payload", "", "Raw scan payload to classify (required)")
	fs.StringVar(&cmd.Mode, "mode", "either", "Expected identity class: student, book or either")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s classify -payload <text> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Classify a raw scan payload the way the scanner endpoints would.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s classify -payload 978-0-13-595705-9\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s classify -payload '{\"student_id\":\"42\",\"student_number\":\"STU-42\",\"email\":\"a@b.edu\"}' -mode student\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Payload == "" {
		return fmt.Errorf("required flag -payload not provided")
	}

	switch cmd.Mode {
	case string(scan.ModeStudent), string(scan.ModeBook), string(scan.ModeEither):
	default:
		return fmt.Errorf("mode must be student, book or either")
	}

	return nil
}

func (cmd *ClassifyCommand) Run() error {
	decision := scan.Guard(scan.Classify(cmd.Payload), scan.Mode(cmd.Mode))

	if !decision.Accepted {
		fmt.Printf("REJECTED: %s\n", decision.Reason)
		return nil
	}

	printRecord(decision.Record)
	return nil
}

func printRecord(record scan.Record) {
	switch rec := record.(type) {
	case scan.StudentIdentity:
		fmt.Println("Student identity")
		fmt.Printf("  ID:     %s\n", rec.StudentID)
		fmt.Printf("  Number: %s\n", rec.StudentNumber)
		fmt.Printf("  Email:  %s\n", rec.Email)
		if rec.FullName != "" {
			fmt.Printf("  Name:   %s\n", rec.FullName)
		}
	case scan.BookIdentity:
		fmt.Println("Book identity")
		if rec.ISBN != "" {
			fmt.Printf("  ISBN:  %s\n", rec.ISBN)
		}
		if rec.BookID != "" {
			fmt.Printf("  ID:    %s\n", rec.BookID)
		}
		if rec.Title != "" {
			fmt.Printf("  Title: %s\n", rec.Title)
		}
	case scan.GenericCode:
		fmt.Println("Generic code")
		fmt.Printf("  Text:    %s\n", rec.RawText)
		fmt.Printf("  Assumed: %s\n", rec.Assumed)
	}
}
