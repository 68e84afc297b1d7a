package services

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rn-medical/complaints-pipeline/internal/logger"
)

// RunLog records what one pipeline invocation did. Its contents become
// the secondary run-log artifact; best-effort failures land here so
// nothing is silently swallowed without a record.
type RunLog struct {
	mu    sync.Mutex
	runID string
	buf   bytes.Buffer
	clock func() time.Time
}

// NewRunLog starts a run log with a fresh run identifier.
func NewRunLog() *RunLog {
	return newRunLogWithClock(time.Now)
}

func newRunLogWithClock(clock func() time.Time) *RunLog {
	r := &RunLog{runID: uuid.NewString(), clock: clock}
	r.Infof("run started run_id=%s", r.runID)
	return r
}

// RunID returns the run identifier stamped into every artifact of this
// invocation.
func (r *RunLog) RunID() string {
	return r.runID
}

// Infof records an informational line.
func (r *RunLog) Infof(format string, args ...any) {
	r.append("INFO", format, args...)
	logger.Info(format, args...)
}

// Warnf records a warning line. Best-effort step failures are warnings.
func (r *RunLog) Warnf(format string, args ...any) {
	r.append("WARN", format, args...)
	logger.Warn(format, args...)
}

// Errorf records an error line.
func (r *RunLog) Errorf(format string, args ...any) {
	r.append("ERROR", format, args...)
	logger.Warn(format, args...)
}

// Bytes returns the log contents recorded so far.
func (r *RunLog) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	return out
}

func (r *RunLog) append(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(&r.buf, "%s %s %s\n",
		r.clock().UTC().Format(time.RFC3339), level, fmt.Sprintf(format, args...))
}
