package metrics

import (
	"time"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

// detailWindow resolves the active timeframe of a detail within its cycle:
// missing detail dates fall back to the cycle's, an open cycle end falls back
// to now.
func detailWindow(d models.GroupDetail, cycle models.Cycle, now time.Time) (time.Time, time.Time) {
	start := d.Start
	if start.IsZero() {
		start = cycle.Start
	}
	switch {
	case d.End != nil:
		return start, *d.End
	case cycle.End != nil:
		return start, *cycle.End
	default:
		return start, now
	}
}

func dateWithin(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// ActiveConsumption keeps only the events that fall within the active window
// of a detail whose location they match, either directly by area id or
// through the area's group membership. Events without a matching active
// detail are dropped.
func ActiveConsumption(events []models.ConsumptionEvent, cycle models.Cycle, lookups Lookups, now time.Time) []models.ConsumptionEvent {
	out := make([]models.ConsumptionEvent, 0, len(events))
	for _, ev := range events {
		d := matchDetail(cycle.Details, ev, lookups)
		if d == nil {
			continue
		}
		start, end := detailWindow(*d, cycle, now)
		if dateWithin(ev.Date, start, end) {
			out = append(out, ev)
		}
	}
	return out
}

// matchDetail finds the first active detail whose location covers the event.
func matchDetail(details []models.GroupDetail, ev models.ConsumptionEvent, lookups Lookups) *models.GroupDetail {
	if ev.AreaID == nil {
		return nil
	}
	group, hasGroup := lookups.Memberships.GroupFor(*ev.AreaID)
	for i := range details {
		d := &details[i]
		if d.Count <= 0 {
			continue
		}
		if d.AreaID != nil && *d.AreaID == *ev.AreaID {
			return d
		}
		if d.AreaGroupID != nil && hasGroup && *d.AreaGroupID == group {
			return d
		}
	}
	return nil
}
