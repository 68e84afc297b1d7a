package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rn-medical/complaints-pipeline/internal/connectors/sheets"
	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driving"
	"github.com/rn-medical/complaints-pipeline/internal/logger"
)

// settleDelay gives the producer time to finish writing an event file
// before it is read.
const settleDelay = 200 * time.Millisecond

var watchFlags struct {
	eventsDir string
	upload    bool
	email     bool
	outDir    string
	appendRow bool
	noLedger  bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and dispatch event files as they arrive",
	Long: `Watches a directory for dispatch event JSON files and runs the
dispatch pipeline on each one as it is created. Runs until interrupted.

With --append-row every newly processed submission is also appended to
the complaints worksheet in canonical column order.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.eventsDir, "events-dir", "",
		"directory to watch for *.json event files (required)")
	watchCmd.Flags().BoolVar(&watchFlags.upload, "upload", false,
		"upload artifacts to the document store")
	watchCmd.Flags().BoolVar(&watchFlags.email, "email", false,
		"send the submission notification email")
	watchCmd.Flags().StringVar(&watchFlags.outDir, "out-dir", "",
		"local artifact directory (default from config)")
	watchCmd.Flags().BoolVar(&watchFlags.appendRow, "append-row", false,
		"append each processed submission to the complaints worksheet")
	watchCmd.Flags().BoolVar(&watchFlags.noLedger, "no-ledger", false,
		"skip the persisted idempotency ledger (reprocessing allowed)")
	_ = watchCmd.MarkFlagRequired("events-dir")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outDir := watchFlags.outDir
	if outDir == "" {
		outDir = cfg.Backup.OutDir
	}

	dispatcher, closeLedger, err := buildDispatcher(cfg, watchFlags.upload,
		watchFlags.email, watchFlags.noLedger, outDir)
	if err != nil {
		return err
	}
	defer closeLedger()

	var worksheet driven.Worksheet
	if watchFlags.appendRow {
		if err := cfg.RequireSheets(); err != nil {
			return err
		}
		worksheet, err = sheets.NewClient(cmd.Context(),
			cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.Worksheet)
		if err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(watchFlags.eventsDir); err != nil {
		return fmt.Errorf("watching %s: %w", watchFlags.eventsDir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for event files. Ctrl-C to stop.\n", watchFlags.eventsDir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Shutting down.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			time.Sleep(settleDelay)
			if err := processEventFile(ctx, cmd, dispatcher, worksheet, event.Name); err != nil {
				logger.Warn("event %s failed: %v", filepath.Base(event.Name), err)
				cmd.Printf("  error: %s: %v\n", filepath.Base(event.Name), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// processEventFile runs one event file through the dispatcher and, when
// configured, appends the processed submission to the worksheet.
func processEventFile(ctx context.Context, cmd *cobra.Command, dispatcher driving.Dispatcher, worksheet driven.Worksheet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading event: %w", err)
	}

	event, err := domain.ParseDispatchEvent(data)
	if err != nil {
		return err
	}

	res, err := dispatcher.ProcessEvent(ctx, event)
	if err != nil {
		return err
	}

	printDispatchResult(cmd, res)

	if worksheet != nil && !res.Skipped {
		values := res.Submission.Values(domain.FieldOrder)
		if err := worksheet.AppendRow(ctx, values); err != nil {
			cmd.Printf("  warning: worksheet append failed: %v\n", err)
		}
	}
	return nil
}
