package checker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_PreservesOrder(t *testing.T) {
	targets := []string{"a", "b", "c", "d", "e"}
	delays := map[string]time.Duration{"a": 30 * time.Millisecond, "c": 10 * time.Millisecond}

	outcomes := Run(context.Background(), Runner{Concurrency: 3}, targets,
		func(ctx context.Context, target string) (string, error) {
			time.Sleep(delays[target])
			if target == "d" {
				return "", errors.New("boom")
			}
			return target + "!", nil
		})

	if len(outcomes) != len(targets) {
		t.Fatalf("expected %d outcomes, got %d", len(targets), len(outcomes))
	}
	for i, o := range outcomes {
		if o.Target != targets[i] {
			t.Errorf("outcome %d: expected target %s, got %s", i, targets[i], o.Target)
		}
		if o.Target == "d" {
			if o.Err == nil {
				t.Error("expected error for d")
			}
			continue
		}
		if o.Err != nil || o.Value != o.Target+"!" {
			t.Errorf("outcome %d: unexpected %+v", i, o)
		}
	}
}

func TestRun_RespectsConcurrency(t *testing.T) {
	var inflight, peak int32
	targets := make([]string, 12)

	Run(context.Background(), Runner{Concurrency: 2}, targets,
		func(ctx context.Context, _ string) (struct{}, error) {
			n := atomic.AddInt32(&inflight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inflight, -1)
			return struct{}{}, nil
		})

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}

func TestRun_Timeout(t *testing.T) {
	outcomes := Run(context.Background(), Runner{Concurrency: 1, Timeout: 10 * time.Millisecond}, []string{"slow"},
		func(ctx context.Context, _ string) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	if !errors.Is(outcomes[0].Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", outcomes[0].Err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	outcomes := Run(ctx, Runner{Concurrency: 2, RateLimit: 5}, []string{"a", "b"},
		func(ctx context.Context, _ string) (int, error) {
			atomic.AddInt32(&calls, 1)
			return 1, nil
		})

	if calls != 0 {
		t.Errorf("expected no task to run, got %d", calls)
	}
	for _, o := range outcomes {
		if o.Err == nil {
			t.Errorf("expected error for %s", o.Target)
		}
	}
}

func TestRun_OnDone(t *testing.T) {
	var done, failed int32
	runner := Runner{
		Concurrency: 2,
		OnDone: func(target string, err error, _ time.Duration) {
			atomic.AddInt32(&done, 1)
			if err != nil {
				atomic.AddInt32(&failed, 1)
			}
		},
	}

	Run(context.Background(), runner, []string{"ok", "bad", "ok"},
		func(ctx context.Context, target string) (bool, error) {
			if target == "bad" {
				return false, errors.New("bad target")
			}
			return true, nil
		})

	if done != 3 || failed != 1 {
		t.Errorf("expected 3 callbacks with 1 failure, got %d/%d", done, failed)
	}
}
