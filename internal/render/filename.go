package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

// stampLayout names backup artifacts: UTC, filesystem-safe.
const stampLayout = "20060102_150405"

// Stamp formats a "generated at" filename stamp. It appears in filenames
// only, never inside artifact content.
func Stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// BackupCSVName returns the bulk export filename for a run stamp.
func BackupCSVName(stamp string) string {
	return fmt.Sprintf("complaints_backup_utc_%s.csv", stamp)
}

// BackupLogName returns the run log filename for a run stamp.
func BackupLogName(stamp string) string {
	return fmt.Sprintf("run_backup_utc_%s.log", stamp)
}

// ReportPath returns the remote destination of a submission's PDF
// report: Submissions/YYYY/MM/DD/complaint_<id>.pdf. The path is a pure
// function of the submission, so a retried upload overwrites rather
// than duplicates.
func ReportPath(sub domain.Submission) (string, error) {
	return submissionPath(sub, "pdf")
}

// MetadataPath returns the remote destination of a submission's JSON
// metadata companion.
func MetadataPath(sub domain.Submission) (string, error) {
	return submissionPath(sub, "json")
}

func submissionPath(sub domain.Submission, ext string) (string, error) {
	ts, err := time.Parse(time.RFC3339, sub.Timestamp())
	if err != nil {
		return "", fmt.Errorf("submission %s has no parseable timestamp: %w", sub.ID(), err)
	}
	ts = ts.UTC()

	return fmt.Sprintf("Submissions/%04d/%02d/%02d/complaint_%s.%s",
		ts.Year(), int(ts.Month()), ts.Day(), pathComponent(sub.ID()), ext), nil
}

// pathComponent keeps a submission id usable as a single remote path
// segment. Only separators and control characters are replaced; the id
// stays recognisable in the store.
func pathComponent(id string) string {
	var out strings.Builder
	for _, r := range id {
		if r == '/' || r == '\\' || r < 0x20 {
			out.WriteByte('_')
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

// SafeFilename conservatively sanitises a name for local filesystem use.
func SafeFilename(name string) string {
	const maxLen = 120

	name = strings.TrimSpace(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(repeatedUnderscores.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = "file"
	}
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}
