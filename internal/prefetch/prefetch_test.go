package prefetch

import (
	"testing"
	"time"

	"mlux/internal/tilecache"
)

func TestRequestsDeliveredInOrder(t *testing.T) {
	ctrl := Start(func(idx int) (tilecache.TilePngs, error) {
		return tilecache.TilePngs{Content: []byte{byte(idx)}}, nil
	})
	defer ctrl.Close()

	for _, idx := range []int{3, 1, 2} {
		ctrl.Request(idx)
	}

	var got []int
	for i := 0; i < 3; i++ {
		select {
		case res := <-ctrl.Results():
			got = append(got, res.Idx)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for result")
		}
	}
	want := [3]int{3, 1, 2}
	for i, idx := range want {
		if got[i] != idx {
			t.Errorf("result %d = %d, want %d (FIFO order)", i, got[i], idx)
		}
	}
}

func TestCloseEndsWorkerAndClosesResults(t *testing.T) {
	ctrl := Start(func(idx int) (tilecache.TilePngs, error) {
		return tilecache.TilePngs{}, nil
	})
	ctrl.Request(1)
	<-ctrl.Results()
	ctrl.Close()

	select {
	case _, ok := <-ctrl.Results():
		if ok {
			t.Fatal("expected Results to be closed after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Results to close")
	}
}

func TestSendPrefetchSkipsCachedAndInFlight(t *testing.T) {
	cache := tilecache.New()
	cache.Insert(5, tilecache.TilePngs{})
	inflight := NewInFlightSet()
	inflight.Add(6)

	ctrl := Start(func(idx int) (tilecache.TilePngs, error) {
		return tilecache.TilePngs{}, nil
	})
	defer ctrl.Close()

	SendPrefetch(ctrl, cache, inflight, 4, 10)

	if !inflight.Contains(3) {
		t.Error("expected idx 3 (center-1) to be marked in flight")
	}
	if inflight.Contains(5) {
		t.Error("idx 5 is already cached, should not be requested")
	}

	drained := map[int]bool{}
	for i := 0; i < 1; i++ {
		select {
		case res := <-ctrl.Results():
			drained[res.Idx] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for result")
		}
	}
	if drained[5] || drained[6] {
		t.Errorf("should not have requested already-cached/in-flight indices, got %v", drained)
	}
}

func TestDrainInsertsIntoCacheAndClearsInFlight(t *testing.T) {
	cache := tilecache.New()
	inflight := NewInFlightSet()
	inflight.Add(9)

	ctrl := Start(func(idx int) (tilecache.TilePngs, error) {
		return tilecache.TilePngs{Content: []byte("x")}, nil
	})
	defer ctrl.Close()

	ctrl.Request(9)
	time.Sleep(50 * time.Millisecond)

	Drain(ctrl, cache, inflight, nil)

	if !cache.Contains(9) {
		t.Error("expected Drain to insert rendered tile into cache")
	}
	if inflight.Contains(9) {
		t.Error("expected Drain to clear the InFlight entry")
	}
}
