package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driving"
	"github.com/rn-medical/complaints-pipeline/internal/logger"
	"github.com/rn-medical/complaints-pipeline/internal/render"
)

// Ensure DispatchOrchestrator implements the interface.
var _ driving.Dispatcher = (*DispatchOrchestrator)(nil)

// DispatchOptions configures per-submission processing.
type DispatchOptions struct {
	// FormTitle is the report title; the event payload's form_title wins
	// when present.
	FormTitle string

	// StrictValidation upgrades schema validation findings from recorded
	// warnings to a fatal error.
	StrictValidation bool

	// LocalDir, when set, receives local copies of the rendered
	// artifacts under a submissions/ subdirectory.
	LocalDir string
}

// DispatchOrchestrator processes one submission event end to end.
// Store and notifier are optional: a nil store disables uploads (and the
// ledger mark that depends on them), a nil notifier disables email.
type DispatchOrchestrator struct {
	ledger     driven.Ledger
	store      driven.DocumentStore
	notifier   driven.Notifier
	normaliser driven.Normaliser
	opts       DispatchOptions
}

// NewDispatchOrchestrator creates a dispatch orchestrator.
func NewDispatchOrchestrator(
	ledger driven.Ledger,
	store driven.DocumentStore,
	notifier driven.Notifier,
	normaliser driven.Normaliser,
	opts DispatchOptions,
) *DispatchOrchestrator {
	if opts.FormTitle == "" {
		opts.FormTitle = "Customer Complaint Form"
	}
	return &DispatchOrchestrator{
		ledger:     ledger,
		store:      store,
		notifier:   notifier,
		normaliser: normaliser,
		opts:       opts,
	}
}

// ProcessEvent runs the dispatch sequence: normalise, idempotency check,
// render, upload, notify, mark processed. Steps run strictly in order;
// the ledger is never updated before the guarding uploads succeed.
func (o *DispatchOrchestrator) ProcessEvent(ctx context.Context, event *domain.DispatchEvent) (*driving.DispatchResult, error) {
	payload := event.ClientPayload

	sub, unmapped, err := o.normaliser.Normalise(payload.Fields, domain.NormaliseContext{
		SubmissionID: payload.SubmissionID,
		Timestamp:    payload.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("normalise submission: %w", err)
	}
	if len(unmapped) > 0 {
		logger.Warn("dropping unmapped form labels: %s", strings.Join(unmapped, ", "))
	}

	res := &driving.DispatchResult{SubmissionID: sub.ID(), Submission: sub}

	if findings := domain.Validate(sub); len(findings) > 0 {
		if o.opts.StrictValidation {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidationFailed, findings)
		}
		for _, f := range findings {
			msg := fmt.Sprintf("validation: %s", f.Error())
			res.Warnings = append(res.Warnings, msg)
			logger.Warn("%s", msg)
		}
	}

	processed, err := o.ledger.HasProcessed(ctx, sub.ID())
	if err != nil {
		return nil, fmt.Errorf("ledger check for %s: %w", sub.ID(), err)
	}
	if processed {
		logger.Info("submission %s already processed, skipping", sub.ID())
		res.Skipped = true
		return res, nil
	}

	title := o.opts.FormTitle
	if payload.FormTitle != "" {
		title = payload.FormTitle
	}

	// Rendering failures are fatal: nothing partial is uploaded.
	report, err := render.Report(title, sub)
	if err != nil {
		return nil, fmt.Errorf("render report for %s: %w", sub.ID(), err)
	}
	if err := render.ValidatePDF(report); err != nil {
		return nil, fmt.Errorf("render report for %s: %w", sub.ID(), err)
	}
	metadata, err := render.Metadata(title, sub, payload.Recipients())
	if err != nil {
		return nil, fmt.Errorf("render metadata for %s: %w", sub.ID(), err)
	}

	reportPath, err := render.ReportPath(sub)
	if err != nil {
		return nil, fmt.Errorf("resolve report path: %w", err)
	}
	metadataPath, err := render.MetadataPath(sub)
	if err != nil {
		return nil, fmt.Errorf("resolve metadata path: %w", err)
	}

	o.writeLocalCopies(res, sub, report, metadata)

	if o.store == nil {
		logger.Info("uploads disabled; submission %s left unmarked", sub.ID())
		return res, nil
	}

	if _, err := o.store.Upload(ctx, reportPath, report); err != nil {
		return nil, fmt.Errorf("%w: report for %s: %v", domain.ErrUploadFailed, sub.ID(), err)
	}
	res.ReportPath = reportPath
	logger.Info("uploaded report %s", reportPath)

	if _, err := o.store.Upload(ctx, metadataPath, metadata); err != nil {
		return nil, fmt.Errorf("%w: metadata for %s: %v", domain.ErrUploadFailed, sub.ID(), err)
	}
	res.MetadataPath = metadataPath
	logger.Info("uploaded metadata %s", metadataPath)

	o.notify(ctx, res, sub, payload.Recipients(), report)

	if err := o.ledger.MarkProcessed(ctx, sub.ID()); err != nil {
		return nil, fmt.Errorf("mark %s processed: %w", sub.ID(), err)
	}

	return res, nil
}

// writeLocalCopies keeps local artifact copies when configured. The
// remote store is the source of truth, so local write failures are
// recorded, not fatal.
func (o *DispatchOrchestrator) writeLocalCopies(res *driving.DispatchResult, sub domain.Submission, report, metadata []byte) {
	if o.opts.LocalDir == "" {
		return
	}

	dir := filepath.Join(o.opts.LocalDir, "submissions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		warnLocal(res, err)
		return
	}

	name := "complaint_" + render.SafeFilename(sub.ID())
	for ext, content := range map[string][]byte{".pdf": report, ".json": metadata} {
		if err := os.WriteFile(filepath.Join(dir, name+ext), content, 0644); err != nil {
			warnLocal(res, err)
		}
	}
}

func warnLocal(res *driving.DispatchResult, err error) {
	msg := fmt.Sprintf("local artifact copy failed: %v", err)
	res.Warnings = append(res.Warnings, msg)
	logger.Warn("%s", msg)
}

// notify sends the submission email. Notification failures never fail
// the run; they are recorded as warnings.
func (o *DispatchOrchestrator) notify(ctx context.Context, res *driving.DispatchResult, sub domain.Submission, to []string, report []byte) {
	if o.notifier == nil {
		return
	}

	if len(to) == 0 {
		msg := "email requested but submission has no recipients; skipping"
		res.Warnings = append(res.Warnings, msg)
		logger.Warn("%s", msg)
		return
	}

	subject := fmt.Sprintf("New complaint submission: %s", sub.ID())
	body := strings.Join([]string{
		"A new complaint was submitted.",
		fmt.Sprintf("Submission id: %s", sub.ID()),
		fmt.Sprintf("Timestamp: %s", sub.Timestamp()),
		fmt.Sprintf("Report: %s", res.ReportPath),
	}, "\n")

	attachment := driven.Attachment{
		Filename: "complaint_" + render.SafeFilename(sub.ID()) + ".pdf",
		Content:  report,
	}

	if err := o.notifier.Send(ctx, to, subject, body, []driven.Attachment{attachment}); err != nil {
		msg := fmt.Sprintf("%v: %v", domain.ErrNotificationFailed, err)
		res.Warnings = append(res.Warnings, msg)
		logger.Warn("%s", msg)
		return
	}
	logger.Info("notification sent to %s", strings.Join(to, ", "))
}
