package assethost_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ridgeline/mediavault/pkg/internal/assethost"
)

// TestLimiterSpacing fires N concurrent calls and checks that every pair of
// consecutive dispatches is separated by at least the configured interval.
func TestLimiterSpacing(t *testing.T) {
	const (
		interval = 50 * time.Millisecond
		calls    = 5
	)

	l := assethost.NewLimiter(interval)
	defer l.Close()

	var (
		mu    sync.Mutex
		times []time.Time
		wg    sync.WaitGroup
	)

	for i := 0; i < calls; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = l.Do(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				times = append(times, time.Now())
				mu.Unlock()

				return nil
			})
		}()
	}

	wg.Wait()

	if len(times) != calls {
		t.Fatalf("dispatched %d calls, want %d", len(times), calls)
	}

	for i := 1; i < len(times); i++ {
		// allow a little scheduler slop below the nominal interval
		if gap := times[i].Sub(times[i-1]); gap < interval-5*time.Millisecond {
			t.Errorf("gap %d-%d = %s, want >= %s", i-1, i, gap, interval)
		}
	}
}

// TestLimiterTotalElapsed checks the aggregate pacing property: N calls take
// at least (N-1) * interval.
func TestLimiterTotalElapsed(t *testing.T) {
	const (
		interval = 30 * time.Millisecond
		calls    = 5
	)

	l := assethost.NewLimiter(interval)
	defer l.Close()

	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = l.Do(context.Background(), func(ctx context.Context) error { return nil })
		}()
	}

	wg.Wait()

	if elapsed := time.Since(start); elapsed < (calls-1)*interval {
		t.Errorf("elapsed %s for %d calls, want >= %s", elapsed, calls, (calls-1)*interval)
	}
}

// TestLimiterFIFO checks that sequentially submitted calls run in order.
func TestLimiterFIFO(t *testing.T) {
	l := assethost.NewLimiter(time.Millisecond)
	defer l.Close()

	var (
		order []int
		wg    sync.WaitGroup
	)

	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			_ = l.Do(context.Background(), func(ctx context.Context) error {
				order = append(order, n)
				return nil
			})
		}(i)

		// serialize submissions so queue order is deterministic
		time.Sleep(5 * time.Millisecond)
	}

	wg.Wait()

	for i, n := range order {
		if n != i {
			t.Fatalf("dispatch order %v, want ascending", order)
		}
	}
}

// TestLimiterCloseReleasesQueued checks Close fails every queued call
// instead of leaving callers blocked. One call occupies the lane long enough
// for two more to queue behind the spacing wait, then Close fires.
func TestLimiterCloseReleasesQueued(t *testing.T) {
	l := assethost.NewLimiter(time.Second)

	// first dispatch sets the spacing clock
	if err := l.Do(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("first Do: %v", err)
	}

	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		go func() {
			errs <- l.Do(context.Background(), func(ctx context.Context) error {
				return nil
			})
		}()
	}

	// let both queue behind the one-second spacing wait
	time.Sleep(20 * time.Millisecond)
	l.Close()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			if err != context.Canceled {
				t.Errorf("queued Do returned %v, want context.Canceled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("queued Do still blocked after Close")
		}
	}
}

// TestLimiterCancelledWhileQueued checks a queued call fails fast when its
// context is cancelled before dispatch.
func TestLimiterCancelledWhileQueued(t *testing.T) {
	l := assethost.NewLimiter(200 * time.Millisecond)
	defer l.Close()

	// occupy the lane
	go func() {
		_ = l.Do(context.Background(), func(ctx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		})
	}()

	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Do(ctx, func(ctx context.Context) error {
		t.Error("cancelled job must not run")
		return nil
	})

	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
