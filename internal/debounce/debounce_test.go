package debounce_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mna/crosscut/internal/debounce"
)

func TestDebouncerCoalescesABurstIntoOneChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := debounce.New(ctx, 20*time.Millisecond)
	for i := 0; i < 5; i++ {
		d.Notify()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-d.Changes():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced change")
	}

	select {
	case <-d.Changes():
		t.Fatal("received a second change from a single burst")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncerForwardsEachSeparatedBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := debounce.New(ctx, 10*time.Millisecond)

	d.Notify()
	select {
	case <-d.Changes():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first change")
	}

	d.Notify()
	select {
	case <-d.Changes():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for second change")
	}
}

func TestDebouncerClosesChangesWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := debounce.New(ctx, 10*time.Millisecond)
	cancel()

	select {
	case _, ok := <-d.Changes():
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Changes to close")
	}
}
