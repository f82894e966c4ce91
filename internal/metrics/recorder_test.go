package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorder_RecordFetch(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.RecordFetch("standings", 120*time.Millisecond, nil)
	r.RecordFetch("standings", 80*time.Millisecond, errors.New("timeout"))
	r.RecordFetch("roster", 40*time.Millisecond, nil)

	snap := r.Snapshot("standings")
	if snap.Calls != 2 {
		t.Fatalf("expected 2 calls, got %d", snap.Calls)
	}
	if snap.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", snap.Errors)
	}
	if snap.LastCallLatency != 80*time.Millisecond {
		t.Fatalf("expected last latency 80ms, got %v", snap.LastCallLatency)
	}

	if got := r.Calls("roster"); got != 1 {
		t.Fatalf("expected 1 roster call, got %d", got)
	}
	if got := r.Errors("roster"); got != 0 {
		t.Fatalf("expected 0 roster errors, got %d", got)
	}
}

func TestRecorder_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	snap := r.Snapshot("college")
	if snap.Calls != 0 || snap.Errors != 0 || snap.LastCallLatency != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestRecorder_SnapshotAll(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.RecordFetch("standings", 120*time.Millisecond, nil)
	r.RecordFetch("college", 30*time.Millisecond, errors.New("status=404"))

	all := r.SnapshotAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(all))
	}
	if got := all["standings"]; got.Calls != 1 || got.Errors != 0 {
		t.Fatalf("unexpected standings snapshot: %+v", got)
	}
	if got := all["college"]; got.Calls != 1 || got.Errors != 1 {
		t.Fatalf("unexpected college snapshot: %+v", got)
	}

	// The copy must not alias the live counters.
	all["standings"] = Snapshot{Calls: 99}
	if got := r.Calls("standings"); got != 1 {
		t.Fatalf("mutating the snapshot leaked into the recorder: %d", got)
	}
}

func TestRecorder_NilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.RecordFetch("standings", time.Second, nil)
	if got := r.Calls("standings"); got != 0 {
		t.Fatalf("nil recorder should report zero, got %d", got)
	}
	if all := r.SnapshotAll(); all != nil {
		t.Fatalf("nil recorder should report no endpoints, got %v", all)
	}
}

func TestRecorder_ConcurrentRecording(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r.RecordFetch("roster", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	if got := r.Calls("roster"); got != workers*perWorker {
		t.Fatalf("expected %d calls, got %d", workers*perWorker, got)
	}
}
