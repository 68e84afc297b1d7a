package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

func testSnapshot(rows int) *domain.WorksheetSnapshot {
	header := make([]string, len(domain.FieldOrder))
	copy(header, domain.FieldOrder)

	snap := &domain.WorksheetSnapshot{Header: header}
	for i := 0; i < rows; i++ {
		row := make([]string, len(header))
		row[0] = "2024-01-05"
		row[2] = "Ada"
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}

func TestBackupRun_ExportsAllRows(t *testing.T) {
	worksheet := &mockWorksheet{snapshot: testSnapshot(3)}
	store := newMockStore()

	runner := NewBackupOrchestrator(worksheet, store, nil,
		BackupOptions{StrictHeader: true, OutDir: t.TempDir()})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.RowCount)
	assert.True(t, strings.HasPrefix(res.CSVPath, "complaints_backup_utc_"))
	assert.True(t, strings.HasSuffix(res.CSVPath, ".csv"))

	store.mu.Lock()
	export := store.uploads[res.CSVPath]
	store.mu.Unlock()
	require.NotEmpty(t, export)

	records, err := csv.NewReader(bytes.NewReader(export)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, domain.FieldOrder, records[0])
	assert.Equal(t, "Ada", records[1][2])
}

func TestBackupRun_WritesLocalCopyAndLog(t *testing.T) {
	dir := t.TempDir()
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: testSnapshot(1)}, nil, nil,
		BackupOptions{StrictHeader: true, OutDir: dir})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(res.LocalCSVPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first_name")

	entries, err := filepath.Glob(filepath.Join(dir, "run_backup_utc_*.log"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	logData, err := os.ReadFile(entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(logData), "run started run_id=")
	assert.Contains(t, string(logData), "backup finished OK")
}

func TestBackupRun_HeaderMismatchFailsFast(t *testing.T) {
	snap := testSnapshot(2)
	snap.Header[2], snap.Header[3] = snap.Header[3], snap.Header[2]

	store := newMockStore()
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: snap}, store, nil,
		BackupOptions{StrictHeader: true, OutDir: t.TempDir()})

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	// Nothing is exported or uploaded on a failed header check.
	assert.Empty(t, store.paths())
}

func TestBackupRun_NonStrictHeaderExportsSheetOrder(t *testing.T) {
	snap := testSnapshot(1)
	snap.Header[2], snap.Header[3] = snap.Header[3], snap.Header[2]

	store := newMockStore()
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: snap}, store, nil,
		BackupOptions{StrictHeader: false, OutDir: t.TempDir()})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	store.mu.Lock()
	export := store.uploads[res.CSVPath]
	store.mu.Unlock()

	records, err := csv.NewReader(bytes.NewReader(export)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, snap.Header, records[0])
}

func TestBackupRun_ExportUploadFailureIsFatal(t *testing.T) {
	store := newMockStore()
	store.failWhen = failOn(".csv")

	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: testSnapshot(1)}, store, nil,
		BackupOptions{StrictHeader: true, OutDir: t.TempDir()})

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestBackupRun_LogUploadFailureIsIsolated(t *testing.T) {
	store := newMockStore()
	store.failWhen = failOn(".log")

	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: testSnapshot(1)}, store, nil,
		BackupOptions{StrictHeader: true, UploadLog: true, OutDir: t.TempDir()})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	// The export upload stands; the log failure is only a warning.
	assert.NotEmpty(t, res.CSVPath)
	assert.Empty(t, res.LogPath)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "run log upload failed")
}

func TestBackupRun_UploadsLogWhenRequested(t *testing.T) {
	store := newMockStore()
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: testSnapshot(1)}, store, nil,
		BackupOptions{StrictHeader: true, UploadLog: true, OutDir: t.TempDir()})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.LogPath, "run_backup_utc_"))
	assert.Len(t, store.paths(), 2)
}

func TestBackupRun_ReadFailureIsFatal(t *testing.T) {
	runner := NewBackupOrchestrator(&mockWorksheet{readErr: assert.AnError}, nil, nil,
		BackupOptions{StrictHeader: true, OutDir: t.TempDir()})

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBackupRun_EmailNotification(t *testing.T) {
	notifier := &mockNotifier{}
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: testSnapshot(2)}, newMockStore(), notifier,
		BackupOptions{StrictHeader: true, EmailTo: []string{"admin@example.com"}, OutDir: t.TempDir()})

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	mail := notifier.sent[0]
	assert.Equal(t, []string{"admin@example.com"}, mail.recipients)
	assert.Contains(t, mail.subject, "Complaints backup success (UTC ")
	assert.Contains(t, mail.body, "Rows exported: 2")
	require.Len(t, mail.attachments, 2)
}

func TestBackupRun_NotificationFailureIsIsolated(t *testing.T) {
	notifier := &mockNotifier{sendErr: assert.AnError}
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: testSnapshot(1)}, newMockStore(), notifier,
		BackupOptions{StrictHeader: true, EmailTo: []string{"admin@example.com"}, OutDir: t.TempDir()})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], domain.ErrNotificationFailed.Error())
}

func TestBackupRun_EmptySheet(t *testing.T) {
	snap := &domain.WorksheetSnapshot{Header: domain.FieldOrder}
	runner := NewBackupOrchestrator(&mockWorksheet{snapshot: snap}, newMockStore(), nil,
		BackupOptions{StrictHeader: true, OutDir: t.TempDir()})

	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowCount)
}
