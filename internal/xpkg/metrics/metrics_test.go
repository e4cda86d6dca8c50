package metrics

import (
	"context"
	"testing"
	"time"

	"restopos/internal/xpkg/logger"
)

func TestServeStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Serve(ctx, 0, logger.New("test"))
		close(done)
	}()

	// Give the listener a moment to come up before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("metrics server did not stop on context cancel")
	}
}
