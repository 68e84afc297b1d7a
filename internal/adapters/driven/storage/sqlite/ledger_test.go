package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLedger(t *testing.T) (*Ledger, func()) {
	t.Helper()

	ledger, err := NewLedger(t.TempDir())
	require.NoError(t, err)

	return ledger, func() {
		ledger.Close()
	}
}

func TestNewLedger_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewLedger(dir)
	require.NoError(t, err)
	defer ledger.Close()

	assert.Equal(t, filepath.Join(dir, "ledger.db"), ledger.Path())
	_, err = os.Stat(ledger.Path())
	assert.NoError(t, err)
}

func TestLedger_MarkAndCheck(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	processed, err := ledger.HasProcessed(ctx, "sub-1")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))

	processed, err = ledger.HasProcessed(ctx, "sub-1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = ledger.HasProcessed(ctx, "sub-2")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestLedger_MarkIsIdempotent(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))
	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))

	n, err := ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLedger_MarkEmptyID(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	assert.Error(t, ledger.MarkProcessed(context.Background(), ""))
}

func TestLedger_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	ledger, err := NewLedger(dir)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkProcessed(ctx, "2024-01-05T10:00:00Z#7"))
	require.NoError(t, ledger.Close())

	reopened, err := NewLedger(dir)
	require.NoError(t, err)
	defer reopened.Close()

	processed, err := reopened.HasProcessed(ctx, "2024-01-05T10:00:00Z#7")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestLedger_Count(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	n, err := ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))
	require.NoError(t, ledger.MarkProcessed(ctx, "sub-2"))

	n, err = ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
