package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rn-medical/complaints-pipeline/internal/adapters/driven/config/file"
	"github.com/rn-medical/complaints-pipeline/internal/adapters/driven/storage/memory"
	"github.com/rn-medical/complaints-pipeline/internal/adapters/driven/storage/sqlite"
	dropboxconn "github.com/rn-medical/complaints-pipeline/internal/connectors/dropbox"
	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driving"
	"github.com/rn-medical/complaints-pipeline/internal/core/services"
	"github.com/rn-medical/complaints-pipeline/internal/normalisers/form"
	"github.com/rn-medical/complaints-pipeline/internal/notify"
)

var dispatchFlags struct {
	eventPath        string
	upload           bool
	email            bool
	outDir           string
	strictValidation bool
	noLedger         bool
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Process one submission event into PDF + metadata artifacts",
	Long: `Reads a dispatch event JSON file, normalises its fields onto the
canonical complaint schema, renders the PDF report and JSON metadata,
and uploads both to the document store.

Already-processed submissions are skipped via the idempotency ledger.`,
	RunE: runDispatch,
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchFlags.eventPath, "event-path",
		os.Getenv("GITHUB_EVENT_PATH"), "path to the dispatch event JSON")
	dispatchCmd.Flags().BoolVar(&dispatchFlags.upload, "upload", false,
		"upload artifacts to the document store")
	dispatchCmd.Flags().BoolVar(&dispatchFlags.email, "email", false,
		"send the submission notification email")
	dispatchCmd.Flags().StringVar(&dispatchFlags.outDir, "out-dir", "",
		"local artifact directory (default from config)")
	dispatchCmd.Flags().BoolVar(&dispatchFlags.strictValidation, "strict-validation", false,
		"fail on schema validation findings instead of recording them")
	dispatchCmd.Flags().BoolVar(&dispatchFlags.noLedger, "no-ledger", false,
		"skip the persisted idempotency ledger (reprocessing allowed)")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if dispatchFlags.eventPath == "" {
		return fmt.Errorf("missing required value: --event-path (or GITHUB_EVENT_PATH)")
	}
	data, err := os.ReadFile(dispatchFlags.eventPath)
	if err != nil {
		return fmt.Errorf("reading event: %w", err)
	}
	event, err := domain.ParseDispatchEvent(data)
	if err != nil {
		return err
	}

	dispatcher, closeLedger, err := buildDispatcher(cfg, dispatchFlags.upload,
		dispatchFlags.email, dispatchFlags.noLedger, dispatchOutDir(cfg))
	if err != nil {
		return err
	}
	defer closeLedger()

	res, err := dispatcher.ProcessEvent(cmd.Context(), event)
	if err != nil {
		return err
	}

	printDispatchResult(cmd, res)
	return nil
}

func dispatchOutDir(cfg *file.Config) string {
	if dispatchFlags.outDir != "" {
		return dispatchFlags.outDir
	}
	return cfg.Backup.OutDir
}

// buildDispatcher assembles the dispatch orchestrator from config and
// toggles. Remote collaborators are constructed only when their toggle
// is on, so flag-only local runs need no credentials.
func buildDispatcher(cfg *file.Config, upload, email, noLedger bool, outDir string) (driving.Dispatcher, func(), error) {
	var (
		ledger      driven.Ledger
		closeLedger = func() {}
	)
	if noLedger {
		ledger = memory.NewLedger()
	} else {
		l, err := sqlite.NewLedger(cfg.Ledger.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening ledger: %w", err)
		}
		ledger = l
		closeLedger = func() { _ = l.Close() }
	}

	var store driven.DocumentStore
	if upload {
		if err := cfg.RequireDropbox(); err != nil {
			closeLedger()
			return nil, nil, err
		}
		store = dropboxconn.NewClient(cfg.Dropbox.Token, cfg.Dropbox.BaseFolder)
	}

	var notifier driven.Notifier
	if email {
		if err := cfg.RequireSMTP(); err != nil {
			closeLedger()
			return nil, nil, err
		}
		notifier = notify.New(notify.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	questions := form.DefaultQuestionMap()
	if cfg.Mapping.File != "" {
		loaded, err := form.LoadQuestionMap(cfg.Mapping.File)
		if err != nil {
			closeLedger()
			return nil, nil, err
		}
		questions = loaded
	}
	if cfg.Mapping.Strict {
		questions.Strict = true
	}

	orch := services.NewDispatchOrchestrator(ledger, store, notifier, form.New(questions),
		services.DispatchOptions{
			StrictValidation: dispatchFlags.strictValidation,
			LocalDir:         outDir,
		})
	return orch, closeLedger, nil
}

func printDispatchResult(cmd *cobra.Command, res *driving.DispatchResult) {
	if res.Skipped {
		cmd.Printf("Submission %s already processed; nothing to do.\n", res.SubmissionID)
		return
	}

	cmd.Printf("Submission %s processed.\n", res.SubmissionID)
	if res.ReportPath != "" {
		cmd.Printf("  report:   %s\n", res.ReportPath)
		cmd.Printf("  metadata: %s\n", res.MetadataPath)
	}
	for _, w := range res.Warnings {
		cmd.Printf("  warning: %s\n", w)
	}
}
