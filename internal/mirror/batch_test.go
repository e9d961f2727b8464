package mirror

import "testing"

func TestSyncAllAggregates(t *testing.T) {
	f := newFakeUpstream()
	f.feeds["src-a"] = []feedRow{
		{artist: "A", name: "Two", uts: "200"},
		{artist: "A", name: "One", uts: "100"},
	}
	f.feeds["src-c"] = []feedRow{
		{artist: "C", name: "One", uts: "500"},
	}

	e, st := newTestEngine(t, f)
	enableMirror(t, st, "alice", "src-a")
	enableMirror(t, st, "carol", "src-c")

	summary, err := e.SyncAll()
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if summary.UsersSynced != 2 {
		t.Fatalf("UsersSynced = %d, want 2", summary.UsersSynced)
	}
	if summary.TotalMirrored != 3 || summary.TotalTracks != 3 {
		t.Fatalf("totals = %d/%d, want 3/3", summary.TotalMirrored, summary.TotalTracks)
	}
	if summary.Results["alice"].Mirrored != 2 || summary.Results["carol"].Mirrored != 1 {
		t.Fatalf("results = %+v", summary.Results)
	}
}

func TestSyncAllIsolatesFailures(t *testing.T) {
	f := newFakeUpstream()
	f.feeds["src-a"] = []feedRow{{artist: "A", name: "One", uts: "100"}}
	f.feeds["src-c"] = []feedRow{{artist: "C", name: "One", uts: "500"}}
	f.failFetch["src-b"] = true

	e, st := newTestEngine(t, f)
	enableMirror(t, st, "alice", "src-a")
	enableMirror(t, st, "bob", "src-b")
	enableMirror(t, st, "carol", "src-c")

	summary, err := e.SyncAll()
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}

	// bob's upstream is down; alice and carol still get synced.
	if summary.Results["alice"].Mirrored != 1 || summary.Results["carol"].Mirrored != 1 {
		t.Fatalf("healthy users affected by failing one: %+v", summary.Results)
	}
	if res, ok := summary.Results["bob"]; !ok || res.Mirrored != 0 {
		t.Fatalf("failing user missing or nonzero: %+v", summary.Results)
	}
	if summary.TotalMirrored != 2 {
		t.Fatalf("TotalMirrored = %d, want 2", summary.TotalMirrored)
	}
}

func TestSyncAllNoActiveUsers(t *testing.T) {
	f := newFakeUpstream()
	e, st := newTestEngine(t, f)

	// One user exists but is switched off.
	st.SetMirrorConfig("alice", "src-a")
	st.SetMirrorEnabled("alice", false)

	summary, err := e.SyncAll()
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if summary.UsersSynced != 0 || len(summary.Results) != 0 {
		t.Fatalf("summary = %+v, want empty", summary)
	}
}
