package metrics

import (
	"sort"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

// FeedComponents aggregates a cycle's timeframe-valid consumption by feed
// type, sorted by total cost descending. Per-animal rates are weighted by
// animal-days, not head count, so a group present for half the cycle weighs
// half as much.
func (c *Calculator) FeedComponents(cycle models.Cycle, consumption []models.ConsumptionEvent, lookups Lookups) []models.FeedComponentSummary {
	now := c.now()
	active := activeDetails(cycle.Details)

	end := now
	if cycle.End != nil {
		end = *cycle.End
	}
	cycleDays := inclusiveDays(cycle.Start, end)

	var animalDays int
	for _, d := range active {
		start, winEnd := detailWindow(d, cycle, now)
		animalDays += d.Count * inclusiveDays(start, winEnd)
	}

	filtered := ActiveConsumption(consumption, cycle, lookups, now)

	var totalCost float64
	byType := make(map[string]*models.FeedComponentSummary)
	var order []string
	for _, ev := range filtered {
		s, ok := byType[ev.FeedTypeID]
		if !ok {
			s = &models.FeedComponentSummary{
				FeedTypeID:   ev.FeedTypeID,
				FeedTypeName: lookups.FeedTypes[ev.FeedTypeID],
			}
			byType[ev.FeedTypeID] = s
			order = append(order, ev.FeedTypeID)
		}
		s.Quantity += ev.Quantity
		s.Cost += ev.Cost
		totalCost += ev.Cost
	}

	out := make([]models.FeedComponentSummary, 0, len(order))
	for _, id := range order {
		s := byType[id]
		if s.Quantity > 0 {
			s.AvgPrice = s.Cost / s.Quantity
		}
		if totalCost > 0 {
			s.ShareOfFeedCostPct = s.Cost / totalCost * 100
		}
		if cycleDays > 0 {
			s.DailyQuantity = s.Quantity / float64(cycleDays)
		}
		if animalDays > 0 {
			s.QuantityPerAnimalDay = s.Quantity / float64(animalDays)
			// Derived from the per-day rate so the two figures can never
			// disagree.
			s.QuantityPerAnimal = s.QuantityPerAnimalDay * float64(cycleDays)
		}
		out = append(out, *s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost > out[j].Cost
		}
		return out[i].FeedTypeID < out[j].FeedTypeID
	})
	return out
}
