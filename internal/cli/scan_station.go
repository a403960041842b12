package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/granthpal/libscan/internal/config"
	"github.com/granthpal/libscan/internal/scan"
)

// ScanStationCommand runs a terminal scan station: every line on stdin
// goes through the same keyboard-wedge buffer, arbiter and mode guard a
// hardware scanner would, tuned by the SCAN_* environment variables.
type ScanStationCommand struct {
	Mode string
}

func NewScanStationCommand() *ScanStationCommand {
	return &ScanStationCommand{}
}

func (cmd *ScanStationCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.Mode, "mode", "either", "Expected identity class: student, book or either")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Read scan bursts from stdin and classify each one.\n")
		fmt.Fprintf(os.Stderr, "A wedge scanner plugged into the terminal works as-is; codes can\n")
		fmt.Fprintf(os.Stderr, "also be typed by hand. Scans arriving within the cooldown window\n")
		fmt.Fprintf(os.Stderr, "of the previous result are ignored. Ctrl-D exits.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s scan -mode book\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  SCAN_COOLDOWN=250ms %s scan\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd.Mode {
	case string(scan.ModeStudent), string(scan.ModeBook), string(scan.ModeEither):
	default:
		return fmt.Errorf("mode must be student, book or either")
	}

	return nil
}

func (cmd *ScanStationCommand) Run() error {
	cfg := config.NewConfig()

	arbiter := scan.NewArbiter(scan.ArbiterConfig{
		Mode:             scan.Mode(cmd.Mode),
		WedgeIdleTimeout: cfg.Scan.WedgeIdleTimeout,
		WedgeMinLength:   cfg.Scan.WedgeMinLength,
		Cooldown:         cfg.Scan.Cooldown,
		FrameInterval:    cfg.Scan.FrameInterval,
		OnAccept: func(rec scan.Record) {
			printRecord(rec)
		},
		OnReject: func(reason string) {
			fmt.Printf("REJECTED: %s\n", reason)
		},
	})
	defer arbiter.Close()

	fmt.Printf("Scan station ready (mode: %s). Waiting for input...\n", cmd.Mode)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		for _, r := range sc.Text() {
			arbiter.HandleKey(r, false)
		}
		arbiter.HandleEnter(false)
	}
	return sc.Err()
}
