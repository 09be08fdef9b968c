package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

func feedCycle() models.Cycle {
	return models.Cycle{
		ID:    "c1",
		Start: day(2024, time.January, 1),
		End:   dayp(2024, time.January, 10),
		Details: []models.GroupDetail{
			{ID: "d1", Count: 10, AreaID: sp("a1"), Start: day(2024, time.January, 1)},
		},
	}
}

func TestFeedComponentsAggregation(t *testing.T) {
	calc := newTestCalculator()
	lookups := Lookups{FeedTypes: map[string]string{"mais": "Mais", "soja": "Sojaschrot"}}
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.January, 2), AreaID: sp("a1"), FeedTypeID: "mais", Quantity: 50, Cost: 100},
		{ID: "e2", Date: day(2024, time.January, 3), AreaID: sp("a1"), FeedTypeID: "mais", Quantity: 50, Cost: 150},
		{ID: "e3", Date: day(2024, time.January, 4), AreaID: sp("a1"), FeedTypeID: "soja", Quantity: 20, Cost: 500},
	}

	got := calc.FeedComponents(feedCycle(), consumption, lookups)
	require.Len(t, got, 2)

	// Sorted by total cost descending.
	soja, mais := got[0], got[1]
	assert.Equal(t, "soja", soja.FeedTypeID)
	assert.Equal(t, "Sojaschrot", soja.FeedTypeName)
	assert.InDelta(t, 500.0, soja.Cost, 1e-9)
	assert.InDelta(t, 25.0, soja.AvgPrice, 1e-9)
	assert.InDelta(t, 500.0/750.0*100, soja.ShareOfFeedCostPct, 1e-9)

	assert.Equal(t, "mais", mais.FeedTypeID)
	assert.InDelta(t, 100.0, mais.Quantity, 1e-9)
	assert.InDelta(t, 2.5, mais.AvgPrice, 1e-9)
	assert.InDelta(t, 10.0, mais.DailyQuantity, 1e-9)

	// 10 animals for the full 10-day cycle: 100 animal-days.
	assert.InDelta(t, 1.0, mais.QuantityPerAnimalDay, 1e-9)
	assert.InDelta(t, 10.0, mais.QuantityPerAnimal, 1e-9)
}

func TestFeedComponentsAnimalDayWeighting(t *testing.T) {
	calc := newTestCalculator()
	cycle := feedCycle()
	// A second group present for only the first five days halves its weight.
	cycle.Details = append(cycle.Details, models.GroupDetail{
		ID: "d2", Count: 10, AreaID: sp("a2"),
		Start: day(2024, time.January, 1), End: dayp(2024, time.January, 5),
	})
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.January, 2), AreaID: sp("a1"), FeedTypeID: "mais", Quantity: 300, Cost: 600},
	}

	got := calc.FeedComponents(cycle, consumption, Lookups{})
	require.Len(t, got, 1)

	// 10*10 + 10*5 = 150 animal-days.
	assert.InDelta(t, 2.0, got[0].QuantityPerAnimalDay, 1e-9)
	assert.InDelta(t, 20.0, got[0].QuantityPerAnimal, 1e-9)
}

func TestFeedComponentsPerAnimalConsistency(t *testing.T) {
	calc := newTestCalculator()
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.January, 2), AreaID: sp("a1"), FeedTypeID: "mais", Quantity: 123.4, Cost: 10},
	}

	got := calc.FeedComponents(feedCycle(), consumption, Lookups{})
	require.Len(t, got, 1)
	assert.InDelta(t, got[0].QuantityPerAnimalDay*10, got[0].QuantityPerAnimal, 1e-9)
}

func TestFeedComponentsFiltersInactiveConsumption(t *testing.T) {
	calc := newTestCalculator()
	consumption := []models.ConsumptionEvent{
		{ID: "in", Date: day(2024, time.January, 5), AreaID: sp("a1"), FeedTypeID: "mais", Quantity: 10, Cost: 10},
		{ID: "late", Date: day(2024, time.February, 5), AreaID: sp("a1"), FeedTypeID: "mais", Quantity: 99, Cost: 99},
		{ID: "elsewhere", Date: day(2024, time.January, 5), AreaID: sp("a8"), FeedTypeID: "mais", Quantity: 99, Cost: 99},
	}

	got := calc.FeedComponents(feedCycle(), consumption, Lookups{})
	require.Len(t, got, 1)
	assert.InDelta(t, 10.0, got[0].Quantity, 1e-9)
}

func TestFeedComponentsEmpty(t *testing.T) {
	calc := newTestCalculator()
	assert.Empty(t, calc.FeedComponents(feedCycle(), nil, Lookups{}))
}
