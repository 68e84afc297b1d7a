package cli

import (
	"github.com/spf13/cobra"

	dropboxconn "github.com/rn-medical/complaints-pipeline/internal/connectors/dropbox"
	"github.com/rn-medical/complaints-pipeline/internal/connectors/sheets"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
	"github.com/rn-medical/complaints-pipeline/internal/core/services"
	"github.com/rn-medical/complaints-pipeline/internal/notify"
)

var backupFlags struct {
	upload          bool
	uploadLog       bool
	email           bool
	nonStrictHeader bool
	outDir          string
	emailTo         []string
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export the full complaints worksheet to a timestamped CSV",
	Long: `Reads the complaints worksheet in one snapshot, validates its header
against the canonical schema, and writes the whole sheet to a
UTC-timestamped CSV together with a run log.

With --upload both files go to the document store; a run log upload
failure never invalidates a successful export upload.`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().BoolVar(&backupFlags.upload, "upload", false,
		"upload the export to the document store")
	backupCmd.Flags().BoolVar(&backupFlags.uploadLog, "upload-log", false,
		"also upload the run log next to the export")
	backupCmd.Flags().BoolVar(&backupFlags.email, "email", false,
		"send the admin notification email")
	backupCmd.Flags().BoolVar(&backupFlags.nonStrictHeader, "non-strict-header", false,
		"export the sheet's own column order instead of failing on a header mismatch")
	backupCmd.Flags().StringVar(&backupFlags.outDir, "out-dir", "",
		"local artifact directory (default from config)")
	backupCmd.Flags().StringSliceVar(&backupFlags.emailTo, "email-to", nil,
		"notification recipients (default from config)")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.RequireSheets(); err != nil {
		return err
	}
	worksheet, err := sheets.NewClient(cmd.Context(),
		cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.Worksheet)
	if err != nil {
		return err
	}

	var store driven.DocumentStore
	if backupFlags.upload {
		if err := cfg.RequireDropbox(); err != nil {
			return err
		}
		store = dropboxconn.NewClient(cfg.Dropbox.Token, cfg.Dropbox.BaseFolder)
	}

	var notifier driven.Notifier
	emailTo := backupFlags.emailTo
	if len(emailTo) == 0 {
		emailTo = cfg.Backup.EmailTo
	}
	if backupFlags.email {
		if err := cfg.RequireSMTP(); err != nil {
			return err
		}
		notifier = notify.New(notify.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	outDir := backupFlags.outDir
	if outDir == "" {
		outDir = cfg.Backup.OutDir
	}

	runner := services.NewBackupOrchestrator(worksheet, store, notifier,
		services.BackupOptions{
			StrictHeader: !backupFlags.nonStrictHeader,
			UploadLog:    backupFlags.uploadLog,
			EmailTo:      emailTo,
			OutDir:       outDir,
		})

	res, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Backup finished: %d rows exported.\n", res.RowCount)
	cmd.Printf("  local: %s\n", res.LocalCSVPath)
	if res.CSVPath != "" {
		cmd.Printf("  remote: %s\n", res.CSVPath)
	}
	if res.LogPath != "" {
		cmd.Printf("  run log: %s\n", res.LogPath)
	}
	for _, w := range res.Warnings {
		cmd.Printf("  warning: %s\n", w)
	}
	return nil
}
