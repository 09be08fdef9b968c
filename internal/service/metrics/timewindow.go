package metrics

import (
	"math"
	"time"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

// PopulationEntry is one counted interval for the max-simultaneous
// computation. A nil Start means "from the bounding window's start", a nil
// End means "until the bounding window's end" (or open if that is absent).
type PopulationEntry struct {
	Count int
	Start *time.Time
	End   *time.Time
}

// MaxSimultaneous returns the highest number of animals present at any single
// instant across the given intervals. Naively summing counts double-counts
// animals that move between locations; the population function is piecewise
// constant and can only change at an interval boundary, so evaluating it at
// every boundary instant is exact.
func MaxSimultaneous(entries []PopulationEntry, windowStart time.Time, windowEnd *time.Time) int {
	active := make([]PopulationEntry, 0, len(entries))
	anyDate := false
	for _, e := range entries {
		if e.Count <= 0 {
			continue
		}
		if e.Start != nil || e.End != nil {
			anyDate = true
		}
		active = append(active, e)
	}
	if len(active) == 0 {
		return 0
	}

	// Without any dates overlap cannot be determined; assume full overlap.
	if !anyDate {
		total := 0
		for _, e := range active {
			total += e.Count
		}
		return total
	}

	type window struct {
		count int
		start time.Time
		end   *time.Time
	}
	windows := make([]window, 0, len(active))
	instants := make([]time.Time, 0, 2*len(active))
	for _, e := range active {
		w := window{count: e.Count, start: windowStart}
		if e.Start != nil {
			w.start = *e.Start
		}
		switch {
		case e.End != nil:
			w.end = e.End
		case windowEnd != nil:
			w.end = windowEnd
		}
		windows = append(windows, w)
		instants = append(instants, w.start)
		if w.end != nil {
			instants = append(instants, *w.end)
		}
	}

	maxCount := 0
	for _, t := range instants {
		sum := 0
		for _, w := range windows {
			if w.start.After(t) {
				continue
			}
			if w.end != nil && t.After(*w.end) {
				continue
			}
			sum += w.count
		}
		if sum > maxCount {
			maxCount = sum
		}
	}
	return maxCount
}

// populationEntries converts a cycle's details into interval entries.
func populationEntries(details []models.GroupDetail) []PopulationEntry {
	entries := make([]PopulationEntry, 0, len(details))
	for _, d := range details {
		e := PopulationEntry{Count: d.Count, End: d.End}
		if !d.Start.IsZero() {
			start := d.Start
			e.Start = &start
		}
		entries = append(entries, e)
	}
	return entries
}

// inclusiveDays counts calendar days between start and end, both ends
// included: a window starting and ending on the same day spans one day.
func inclusiveDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}
