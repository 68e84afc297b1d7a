// Package memory provides in-memory adapter implementations, used in
// tests and for runs where persistence is explicitly disabled.
package memory

import (
	"context"
	"sync"

	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.Ledger = (*Ledger)(nil)

// Ledger is an in-memory implementation of driven.Ledger.
type Ledger struct {
	mu        sync.RWMutex
	processed map[string]struct{}
}

// NewLedger creates a new in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{processed: make(map[string]struct{})}
}

// HasProcessed reports whether the submission id was marked processed.
func (l *Ledger) HasProcessed(_ context.Context, submissionID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.processed[submissionID]
	return ok, nil
}

// MarkProcessed records the submission id. Idempotent.
func (l *Ledger) MarkProcessed(_ context.Context, submissionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.processed[submissionID] = struct{}{}
	return nil
}

// Len returns the number of marked submissions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.processed)
}
