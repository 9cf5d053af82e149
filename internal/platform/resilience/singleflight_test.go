package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroupDoCollapsesConcurrentCalls(t *testing.T) {
	var g Group[int64, string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do(745527, func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "feed", nil
			})
			if err != nil || v != "feed" {
				t.Errorf("unexpected result %q %v", v, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestGroupDoContextFollowerGivesUp(t *testing.T) {
	var g Group[string, int]
	release := make(chan struct{})
	leaderDone := make(chan struct{})

	go func() {
		defer close(leaderDone)
		v, err, _ := g.Do("schedule", func() (int, error) {
			<-release
			return 7, nil
		})
		if err != nil || v != 7 {
			t.Errorf("unexpected leader result %d %v", v, err)
		}
	}()

	// Let the leader register before the follower joins.
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err, shared := g.DoContext(ctx, "schedule", func() (int, error) {
		t.Errorf("follower must not run fn")
		return 0, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) || !shared {
		t.Fatalf("expected deadline error from shared wait, got %v shared=%v", err, shared)
	}

	close(release)
	<-leaderDone
}

func TestGroupForgetsKeyAfterCompletion(t *testing.T) {
	var g Group[string, int]
	calls := 0
	for range 3 {
		if _, _, shared := g.Do("venue", func() (int, error) {
			calls++
			return calls, nil
		}); shared {
			t.Fatalf("sequential calls must not share")
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 executions, got %d", calls)
	}
}
