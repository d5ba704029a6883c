package history

import (
	"fmt"
	"testing"
	"time"

	"cvstudio/api/internal/store"
)

var testLoc = time.UTC

func autoSnap(ts time.Time) store.Snapshot {
	return store.Snapshot{ID: store.NewID(), Timestamp: ts}
}

func namedSnap(name string, ts time.Time) store.Snapshot {
	return store.Snapshot{ID: store.NewID(), Timestamp: ts, Name: name}
}

func TestPruneKeepsAtMostTenSameDayAutosaves(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, testLoc)

	var entries []store.Snapshot
	for i := 0; i < 15; i++ {
		entries = append(entries, autoSnap(now.Add(-time.Duration(i)*time.Minute)))
	}

	pruned := Prune(entries, now, testLoc)
	if len(pruned) != MaxSameDayAutosaves {
		t.Fatalf("expected %d same-day autosaves, got %d", MaxSameDayAutosaves, len(pruned))
	}
	for i := 1; i < len(pruned); i++ {
		if pruned[i].Timestamp.After(pruned[i-1].Timestamp) {
			t.Fatalf("autosaves not newest-first at index %d", i)
		}
	}
	// The ten kept must be the ten most recent.
	oldest := pruned[len(pruned)-1].Timestamp
	if got := now.Sub(oldest); got != 9*time.Minute {
		t.Fatalf("expected oldest survivor 9m back, got %v", got)
	}
}

func TestPruneKeepsOneAutosavePerPriorDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, testLoc)

	var entries []store.Snapshot
	for day := 1; day <= 4; day++ {
		base := now.AddDate(0, 0, -day)
		for i := 0; i < 5; i++ {
			entries = append(entries, autoSnap(base.Add(time.Duration(i)*time.Hour)))
		}
	}

	pruned := Prune(entries, now, testLoc)
	if len(pruned) != 4 {
		t.Fatalf("expected 1 survivor per prior day, got %d", len(pruned))
	}
	seen := map[string]bool{}
	for _, snap := range pruned {
		key := snap.Timestamp.In(testLoc).Format("2006-01-02")
		if seen[key] {
			t.Fatalf("two survivors on day %s", key)
		}
		seen[key] = true
		// The survivor is that day's most recent (base + 4h).
		if snap.Timestamp.Hour() != 16 {
			t.Fatalf("expected most recent autosave of the day, got hour %d", snap.Timestamp.Hour())
		}
	}
}

func TestPruneNamedSnapshotsSurviveDayPruning(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, testLoc)

	var entries []store.Snapshot
	for day := 1; day <= 3; day++ {
		base := now.AddDate(0, 0, -day)
		entries = append(entries, namedSnap(fmt.Sprintf("milestone %d", day), base))
		entries = append(entries, namedSnap(fmt.Sprintf("milestone %d bis", day), base.Add(time.Hour)))
		entries = append(entries, autoSnap(base.Add(2*time.Hour)))
	}

	pruned := Prune(entries, now, testLoc)
	named := 0
	for _, snap := range pruned {
		if snap.Named() {
			named++
		}
	}
	if named != 6 {
		t.Fatalf("expected all 6 named snapshots kept, got %d", named)
	}
	// Named first, newest first, then autosaves.
	for i, snap := range pruned {
		if i < 6 && !snap.Named() {
			t.Fatalf("expected named snapshots before autosaves, found autosave at %d", i)
		}
	}
}

func TestPruneHardCap(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, testLoc)

	var entries []store.Snapshot
	for i := 0; i < 150; i++ {
		entries = append(entries, namedSnap(fmt.Sprintf("v%d", i), now.Add(-time.Duration(i)*time.Hour)))
	}

	pruned := Prune(entries, now, testLoc)
	if len(pruned) != MaxEntries {
		t.Fatalf("expected hard cap %d, got %d", MaxEntries, len(pruned))
	}
	// Cap keeps the newest entries.
	if pruned[0].Name != "v0" || pruned[MaxEntries-1].Name != fmt.Sprintf("v%d", MaxEntries-1) {
		t.Fatalf("cap did not keep the newest entries: first=%s last=%s", pruned[0].Name, pruned[MaxEntries-1].Name)
	}
}

func TestPruneDeterministicAndInputOrderIndependent(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, testLoc)

	entries := []store.Snapshot{
		autoSnap(now.Add(-26 * time.Hour)),
		namedSnap("keep", now.Add(-30 * time.Hour)),
		autoSnap(now.Add(-25 * time.Hour)),
		autoSnap(now.Add(-time.Minute)),
	}
	reversed := make([]store.Snapshot, len(entries))
	for i, snap := range entries {
		reversed[len(entries)-1-i] = snap
	}

	a := Prune(entries, now, testLoc)
	b := Prune(reversed, now, testLoc)
	if len(a) != len(b) {
		t.Fatalf("prune not order independent: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("prune order differs at %d", i)
		}
	}
	// keep(named), then autos: -1m, -25h survivor.
	if len(a) != 3 || !a[0].Named() {
		t.Fatalf("unexpected prune result: %+v", a)
	}
}

func TestTruncateEditHistory(t *testing.T) {
	h := &store.EditHistory{}
	for i := 0; i < 70; i++ {
		h.Past = append(h.Past, store.EditStep{CreatedAt: time.Unix(int64(i), 0)})
		h.Future = append(h.Future, store.EditStep{CreatedAt: time.Unix(int64(1000+i), 0)})
	}
	TruncateEditHistory(h)
	if len(h.Past) != MaxEditSteps || len(h.Future) != MaxEditSteps {
		t.Fatalf("expected both sides capped at %d, got %d/%d", MaxEditSteps, len(h.Past), len(h.Future))
	}
	// Past keeps the most recent steps.
	if h.Past[0].CreatedAt != time.Unix(20, 0) {
		t.Fatalf("expected oldest past steps dropped, got %v", h.Past[0].CreatedAt)
	}
}
