package prom

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Observations before Create must be silent no-ops, and observing
// concurrently with Create must be safe under the race detector.
func TestObserveStoreOpBeforeAndDuringCreate(t *testing.T) {
	require.NotPanics(t, func() {
		ObserveStoreOp("customer_create", time.Now(), nil)
		ObserveStoreOp("customer_create", time.Now(), errors.New("boom"))
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ObserveStoreOp("credit_update", time.Now(), nil)
			}
		}()
	}
	require.NoError(t, Create("ledger_test", "test", "local"))
	wg.Wait()

	// Second Create is a no-op, not a duplicate registration error.
	require.NoError(t, Create("ledger_test", "test", "local"))

	require.NotPanics(t, func() {
		ObserveStoreOp("credit_update", time.Now(), nil)
	})
}
