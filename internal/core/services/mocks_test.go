package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
)

// mockLedger is an in-memory ledger with injectable failures.
type mockLedger struct {
	mu        sync.Mutex
	processed map[string]struct{}
	checkErr  error
	markErr   error
	markCalls int
}

func newMockLedger() *mockLedger {
	return &mockLedger{processed: make(map[string]struct{})}
}

func (m *mockLedger) HasProcessed(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkErr != nil {
		return false, m.checkErr
	}
	_, ok := m.processed[id]
	return ok, nil
}

func (m *mockLedger) MarkProcessed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.markErr != nil {
		return m.markErr
	}
	m.processed[id] = struct{}{}
	return nil
}

// mockStore records uploads and can fail on selected paths.
type mockStore struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	failWhen func(path string) error
}

func newMockStore() *mockStore {
	return &mockStore{uploads: make(map[string][]byte)}
}

func (m *mockStore) Upload(_ context.Context, path string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWhen != nil {
		if err := m.failWhen(path); err != nil {
			return "", err
		}
	}
	m.uploads[path] = content
	return "id:" + path, nil
}

func (m *mockStore) paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.uploads))
	for p := range m.uploads {
		out = append(out, p)
	}
	return out
}

type sentMail struct {
	recipients  []string
	subject     string
	body        string
	attachments []driven.Attachment
}

// mockNotifier records sent mail and can fail every send.
type mockNotifier struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (m *mockNotifier) Send(_ context.Context, recipients []string, subject, body string, attachments []driven.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{
		recipients:  recipients,
		subject:     subject,
		body:        body,
		attachments: attachments,
	})
	return nil
}

// mockWorksheet serves a fixed snapshot.
type mockWorksheet struct {
	snapshot *domain.WorksheetSnapshot
	readErr  error
	appended [][]string
}

func (m *mockWorksheet) ReadHeader(_ context.Context) ([]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.snapshot.Header, nil
}

func (m *mockWorksheet) ReadAllRows(_ context.Context) ([][]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.snapshot.Rows, nil
}

func (m *mockWorksheet) ReadSnapshot(_ context.Context) (*domain.WorksheetSnapshot, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.snapshot, nil
}

func (m *mockWorksheet) AppendRow(_ context.Context, values []string) error {
	m.appended = append(m.appended, values)
	return nil
}

// failOn returns a failWhen function failing every path that contains
// the given fragment.
func failOn(fragment string) func(string) error {
	return func(path string) error {
		if strings.Contains(path, fragment) {
			return fmt.Errorf("injected failure for %s", path)
		}
		return nil
	}
}
