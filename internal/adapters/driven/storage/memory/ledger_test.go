package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_MarkAndCheck(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	processed, err := ledger.HasProcessed(ctx, "sub-1")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))

	processed, err = ledger.HasProcessed(ctx, "sub-1")
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, 1, ledger.Len())
}

func TestLedger_MarkIsIdempotent(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))
	require.NoError(t, ledger.MarkProcessed(ctx, "sub-1"))
	assert.Equal(t, 1, ledger.Len())
}

func TestLedger_ConcurrentAccess(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.MarkProcessed(ctx, "sub-1")
			_, _ = ledger.HasProcessed(ctx, "sub-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ledger.Len())
}
