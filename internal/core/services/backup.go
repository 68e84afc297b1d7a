package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driving"
	"github.com/rn-medical/complaints-pipeline/internal/logger"
	"github.com/rn-medical/complaints-pipeline/internal/render"
)

// Ensure BackupOrchestrator implements the interface.
var _ driving.BackupRunner = (*BackupOrchestrator)(nil)

// BackupOptions configures a backup run.
type BackupOptions struct {
	// StrictHeader fails the run when the worksheet header does not
	// match the canonical field order. When false the export carries the
	// sheet's own header and the canonical-order guarantee is waived.
	StrictHeader bool

	// UploadLog also uploads the run log next to the export.
	UploadLog bool

	// EmailTo receives the admin notification; empty disables it.
	EmailTo []string

	// OutDir receives local copies of the export and run log.
	OutDir string
}

// BackupOrchestrator exports the full complaints worksheet.
// Store and notifier are optional; a nil store disables uploads.
type BackupOrchestrator struct {
	worksheet driven.Worksheet
	store     driven.DocumentStore
	notifier  driven.Notifier
	opts      BackupOptions
	clock     func() time.Time
}

// NewBackupOrchestrator creates a backup orchestrator.
func NewBackupOrchestrator(
	worksheet driven.Worksheet,
	store driven.DocumentStore,
	notifier driven.Notifier,
	opts BackupOptions,
) *BackupOrchestrator {
	if opts.OutDir == "" {
		opts.OutDir = "backups"
	}
	return &BackupOrchestrator{
		worksheet: worksheet,
		store:     store,
		notifier:  notifier,
		opts:      opts,
		clock:     time.Now,
	}
}

// Run executes the backup sequence: read snapshot, validate header,
// render, upload export, upload run log (best-effort), notify
// (best-effort). A log-upload failure never invalidates a successful
// export upload.
func (o *BackupOrchestrator) Run(ctx context.Context) (*driving.BackupResult, error) {
	runLog := NewRunLog()
	res := &driving.BackupResult{}

	snapshot, err := o.worksheet.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	runLog.Infof("read worksheet snapshot: %d rows", len(snapshot.Rows))

	header := domain.FieldOrder
	if o.opts.StrictHeader {
		if err := snapshot.ValidateHeader(); err != nil {
			return nil, fmt.Errorf("validate header: %w", err)
		}
		runLog.Infof("header matches canonical schema")
	} else {
		// Relaxed mode: the export mirrors the sheet as-is.
		header = snapshot.Header
		runLog.Warnf("non-strict header mode: exporting sheet's own column order")
	}

	export, err := render.BulkCSV(header, snapshot.Rows)
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}
	res.RowCount = len(snapshot.Rows)

	stamp := render.Stamp(o.clock())
	csvName := render.BackupCSVName(stamp)
	logName := render.BackupLogName(stamp)

	res.LocalCSVPath = filepath.Join(o.opts.OutDir, csvName)
	if err := os.MkdirAll(o.opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	if err := os.WriteFile(res.LocalCSVPath, export, 0644); err != nil {
		return nil, fmt.Errorf("write local export: %w", err)
	}
	runLog.Infof("export written: %s (%d data rows)", res.LocalCSVPath, res.RowCount)

	if o.store != nil {
		if _, err := o.store.Upload(ctx, csvName, export); err != nil {
			return nil, fmt.Errorf("%w: export %s: %v", domain.ErrUploadFailed, csvName, err)
		}
		res.CSVPath = csvName
		runLog.Infof("uploaded export %s", csvName)

		if o.opts.UploadLog {
			// Secondary artifact: failure is recorded, never fatal.
			if _, err := o.store.Upload(ctx, logName, runLog.Bytes()); err != nil {
				msg := fmt.Sprintf("run log upload failed: %v", err)
				res.Warnings = append(res.Warnings, msg)
				runLog.Warnf("%s", msg)
			} else {
				res.LogPath = logName
				runLog.Infof("uploaded run log %s", logName)
			}
		}
	} else {
		runLog.Infof("uploads disabled")
	}

	o.notify(ctx, res, runLog, stamp, export)

	runLog.Infof("backup finished OK")
	if err := os.WriteFile(filepath.Join(o.opts.OutDir, logName), runLog.Bytes(), 0644); err != nil {
		msg := fmt.Sprintf("local run log write failed: %v", err)
		res.Warnings = append(res.Warnings, msg)
		logger.Warn("%s", msg)
	}

	return res, nil
}

// notify sends the admin email. Always best-effort.
func (o *BackupOrchestrator) notify(ctx context.Context, res *driving.BackupResult, runLog *RunLog, stamp string, export []byte) {
	if o.notifier == nil || len(o.opts.EmailTo) == 0 {
		return
	}

	subject := fmt.Sprintf("Complaints backup success (UTC %s)", stamp)
	body := strings.Join([]string{
		"Complaints backup completed successfully.",
		fmt.Sprintf("UTC timestamp: %s", stamp),
		fmt.Sprintf("Run id: %s", runLog.RunID()),
		fmt.Sprintf("Rows exported: %d", res.RowCount),
		fmt.Sprintf("Export: %s", orLocal(res.CSVPath, res.LocalCSVPath)),
		fmt.Sprintf("Run log: %s", orLocal(res.LogPath, "not uploaded")),
	}, "\n")

	attachments := []driven.Attachment{
		{Filename: render.BackupCSVName(stamp), Content: export},
		{Filename: render.BackupLogName(stamp), Content: runLog.Bytes()},
	}

	if err := o.notifier.Send(ctx, o.opts.EmailTo, subject, body, attachments); err != nil {
		msg := fmt.Sprintf("%v: %v", domain.ErrNotificationFailed, err)
		res.Warnings = append(res.Warnings, msg)
		runLog.Warnf("%s", msg)
		return
	}
	runLog.Infof("backup email sent to %s", strings.Join(o.opts.EmailTo, ", "))
}

func orLocal(remote, fallback string) string {
	if remote != "" {
		return remote
	}
	return fallback
}
