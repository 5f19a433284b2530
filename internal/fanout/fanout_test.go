package fanout

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestMapRunsEveryItem(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	var sum atomic.Int64
	errs := Map(context.Background(), items, Options{Jobs: 2}, func(_ context.Context, n int) error {
		sum.Add(int64(n))
		if n%3 == 0 {
			return errors.New("bad")
		}
		return nil
	})
	if sum.Load() != 21 {
		t.Fatalf("sum = %d, want 21", sum.Load())
	}
	if Failed(errs) != 2 || errs[2] == nil || errs[5] == nil || errs[0] != nil {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestMapRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	items := make([]int, 20)
	Map(context.Background(), items, Options{Jobs: 3}, func(context.Context, int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	if peak.Load() > 3 {
		t.Fatalf("peak concurrency %d exceeds limit", peak.Load())
	}
}

func TestMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	errs := Map(ctx, []string{"a", "b"}, Options{Jobs: 1}, func(context.Context, string) error {
		t.Error("fn should not run after cancellation")
		return nil
	})
	if Failed(errs) != 2 || !errors.Is(errs[0], context.Canceled) {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestMapProgress(t *testing.T) {
	var buf bytes.Buffer
	Map(context.Background(), []int{1, 2}, Options{Jobs: 1, Progress: &buf, Description: "transcoding"}, func(context.Context, int) error {
		return nil
	})
	if buf.Len() == 0 {
		t.Fatal("expected progress output")
	}
}

func TestTerminalProgressNil(t *testing.T) {
	if TerminalProgress(nil) != nil {
		t.Fatal("nil file should give no progress writer")
	}
}
