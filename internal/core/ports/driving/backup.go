package driving

import "context"

// BackupResult reports what one backup run produced.
type BackupResult struct {
	// RowCount is the number of data rows exported (header excluded).
	RowCount int

	// CSVPath is the remote destination of the export, empty when uploads
	// were disabled. LogPath is the run log destination; it stays empty
	// when the log upload was skipped or failed.
	CSVPath string
	LogPath string

	// LocalCSVPath is where the export was written on disk.
	LocalCSVPath string

	// Warnings records best-effort failures (log upload, notification)
	// that did not fail the run.
	Warnings []string
}

// BackupRunner exports the full complaints worksheet to CSV and drives
// the upload and notification steps.
type BackupRunner interface {
	Run(ctx context.Context) (*BackupResult, error)
}
