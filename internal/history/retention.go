// Package history implements the snapshot retention policy and the bounded
// linear undo/redo stack used by the resume editor.
package history

import (
	"sort"
	"time"

	"cvstudio/api/internal/store"
)

const (
	// MaxSameDayAutosaves bounds how many unnamed snapshots survive pruning
	// for the current calendar day.
	MaxSameDayAutosaves = 10
	// MaxEntries is the hard cap on history length. It is a safety bound,
	// applied after the day-based policy, and can evict named snapshots.
	MaxEntries = 99
	// MaxEditSteps bounds each side of an undo/redo stack.
	MaxEditSteps = 50
)

// Prune applies the autosave retention policy and returns the rebuilt
// history list:
//
//  1. Named snapshots are always kept by the day-based step.
//  2. Unnamed snapshots are grouped by calendar day; the current day keeps
//     its 10 most recent, every other day keeps exactly its single most
//     recent.
//  3. The result is named snapshots (newest first) followed by surviving
//     autosaves (newest first), truncated to 99 entries.
//
// The day key is derived in loc; a nil loc means the system local zone.
func Prune(entries []store.Snapshot, now time.Time, loc *time.Location) []store.Snapshot {
	if loc == nil {
		loc = time.Local
	}
	today := dayKey(now, loc)

	var named []store.Snapshot
	byDay := make(map[string][]store.Snapshot)
	var dayOrder []string
	for _, snap := range entries {
		if snap.Named() {
			named = append(named, snap)
			continue
		}
		key := dayKey(snap.Timestamp, loc)
		if _, seen := byDay[key]; !seen {
			dayOrder = append(dayOrder, key)
		}
		byDay[key] = append(byDay[key], snap)
	}

	var autos []store.Snapshot
	for _, key := range dayOrder {
		group := byDay[key]
		sortNewestFirst(group)
		keep := 1
		if key == today {
			keep = MaxSameDayAutosaves
		}
		if len(group) > keep {
			group = group[:keep]
		}
		autos = append(autos, group...)
	}

	sortNewestFirst(named)
	sortNewestFirst(autos)

	result := make([]store.Snapshot, 0, len(named)+len(autos))
	result = append(result, named...)
	result = append(result, autos...)
	if len(result) > MaxEntries {
		result = result[:MaxEntries]
	}
	return result
}

func sortNewestFirst(snaps []store.Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Timestamp.After(snaps[j].Timestamp)
	})
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// TruncateEditHistory bounds a persisted edit history to MaxEditSteps per
// side, dropping the oldest past steps and the newest-most-distant future
// steps first.
func TruncateEditHistory(h *store.EditHistory) {
	if h == nil {
		return
	}
	if len(h.Past) > MaxEditSteps {
		h.Past = h.Past[len(h.Past)-MaxEditSteps:]
	}
	if len(h.Future) > MaxEditSteps {
		h.Future = h.Future[:MaxEditSteps]
	}
}
