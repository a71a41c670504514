package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"travel_planner/internal/domain"
)

type fakeSweeper struct {
	mu       sync.Mutex
	seen     []int64
	inFlight int32
	peak     int32
	fail     map[int64]bool
}

func (f *fakeSweeper) SweepPublic(ctx context.Context, id int64) (int, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if cur <= p || atomic.CompareAndSwapInt32(&f.peak, p, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	f.mu.Lock()
	f.seen = append(f.seen, id)
	f.mu.Unlock()
	if f.fail[id] {
		return 0, errors.New("boom")
	}
	return 1, nil
}

func TestSweep_BoundedAndCounts(t *testing.T) {
	f := &fakeSweeper{fail: map[int64]bool{3: true}}
	ids := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	res := sweep(context.Background(), f, ids, 2)

	if len(f.seen) != len(ids) {
		t.Fatalf("swept %d ids, want %d", len(f.seen), len(ids))
	}
	if f.peak > 2 {
		t.Fatalf("peak concurrency %d exceeds 2 workers", f.peak)
	}
	if res.merged != 7 || res.failed != 1 {
		t.Fatalf("result = %+v, want merged 7 failed 1", res)
	}
}

func TestSweep_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeSweeper{}
	res := sweep(ctx, f, []int64{1, 2, 3}, 1)
	if len(f.seen) != 0 || res.merged != 0 {
		t.Fatalf("work done after cancel: %+v seen=%v", res, f.seen)
	}
}

func TestLeaders_OnePerIdentity(t *testing.T) {
	ds := []domain.Destination{
		{ID: 7, Name: "Hagley Park", Type: "Park", Country: "New Zealand"},
		{ID: 3, Name: "hagley park", Type: "park", Country: "new zealand"},
		{ID: 5, Name: "Mount Cook", Type: "Mountain", Country: "New Zealand"},
		{ID: 9, Name: "Hagley Park", Type: "Garden", Country: "New Zealand"},
	}
	got := leaders(ds)
	want := []int64{3, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("leaders = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("leaders = %v, want %v", got, want)
		}
	}
}
