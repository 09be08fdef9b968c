package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

func areaCycle() models.Cycle {
	return models.Cycle{
		ID:    "c1",
		Start: day(2024, time.January, 1),
		End:   dayp(2024, time.January, 31),
		Details: []models.GroupDetail{
			{
				ID: "d1", Count: 60, AreaID: sp("a1"),
				Start: day(2024, time.January, 1),
				StartWeight: fp(30), EndWeight: fp(120),
				BuyPrice: fp(50), SellPrice: fp(200),
			},
			{
				ID: "d2", Count: 40, AreaID: sp("a2"),
				Start: day(2024, time.January, 1),
				BuyPrice: fp(50), SellPrice: fp(210),
			},
		},
	}
}

func areaLookups() Lookups {
	return Lookups{
		AreaNames: map[string]string{"a1": "Stall 1", "a2": "Stall 2"},
	}
}

func TestAreaMetricsPerGroupFigures(t *testing.T) {
	calc := newTestCalculator()
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.January, 10), AreaID: sp("a1"), Quantity: 600, Cost: 300},
		{ID: "e2", Date: day(2024, time.January, 12), AreaID: sp("a2"), Quantity: 200, Cost: 100},
	}
	costs := []models.CostTransaction{
		{ID: "t1", Amount: 1000, Category: "Wartung"},
		{ID: "t2", Amount: 500, Category: "Futterkosten"}, // feed, never allocated as shared
	}

	got := calc.AreaMetrics(areaCycle(), consumption, costs, areaLookups(), nil)
	require.Len(t, got, 2)

	g1, g2 := got[0], got[1]
	assert.Equal(t, "a1", g1.Key)
	assert.Equal(t, "Stall 1", g1.Name)
	assert.False(t, g1.IsGroup)
	assert.Equal(t, 60, g1.Animals)
	assert.InDelta(t, 300.0, g1.FeedCost, 1e-9)
	assert.InDelta(t, 5.0, g1.FeedCostPerAnimal, 1e-9)
	assert.InDelta(t, 75.0, g1.ShareOfCycleFeedCostPct, 1e-9)
	assert.InDelta(t, 300.0/31, g1.DailyFeedCost, 1e-9)
	// 60 animals gaining 90 kg each on 300 of feed cost.
	assert.InDelta(t, 300.0/5400.0, g1.FeedCostPerKgGain, 1e-9)

	// Shared 1000 across 100 animals: 10 per head in every group.
	assert.InDelta(t, 10.0, g1.AllocatedCostPerAnimal, 1e-9)
	assert.InDelta(t, 10.0, g2.AllocatedCostPerAnimal, 1e-9)

	require.NotNil(t, g1.DirectProfitPerAnimal)
	assert.InDelta(t, 200-50-5, *g1.DirectProfitPerAnimal, 1e-9)
	require.NotNil(t, g1.FullProfitPerAnimal)
	assert.InDelta(t, 200-(50+5+10), *g1.FullProfitPerAnimal, 1e-9)

	assert.Equal(t, "a2", g2.Key)
	assert.InDelta(t, 2.5, g2.FeedCostPerAnimal, 1e-9)
	require.NotNil(t, g2.DirectProfitPerAnimal)
	assert.InDelta(t, 210-50-2.5, *g2.DirectProfitPerAnimal, 1e-9)
	require.NotNil(t, g2.FullProfitPerAnimal)
	assert.InDelta(t, 210-(50+2.5+10), *g2.FullProfitPerAnimal, 1e-9)
}

func TestAreaMetricsAttributionByMembership(t *testing.T) {
	calc := newTestCalculator()
	cycle := models.Cycle{
		ID:    "c1",
		Start: day(2024, time.January, 1),
		End:   dayp(2024, time.January, 31),
		Details: []models.GroupDetail{
			{ID: "d1", Count: 50, AreaGroupID: sp("g1"), Start: day(2024, time.January, 1)},
		},
	}
	lookups := Lookups{
		GroupNames: map[string]string{"g1": "Maststall Nord"},
		Memberships: NewMembershipIndex([]models.AreaGroupMembership{
			{AreaID: "a5", AreaGroupID: "g1"},
		}),
	}
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.January, 10), AreaID: sp("a5"), Quantity: 100, Cost: 50},
	}

	got := calc.AreaMetrics(cycle, consumption, nil, lookups, nil)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsGroup)
	assert.Equal(t, "g1", got[0].Key)
	assert.Equal(t, "Maststall Nord", got[0].Name)
	assert.InDelta(t, 50.0, got[0].FeedCost, 1e-9)
}

func TestAreaMetricsAttributionByAreaName(t *testing.T) {
	calc := newTestCalculator()
	lookups := Lookups{
		AreaNames: map[string]string{
			"a1": "Stall 1", "a2": "Stall 2",
			"a9": "Stall 1", // duplicate area record for the same barn
		},
	}
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.January, 10), AreaID: sp("a9"), Quantity: 100, Cost: 80},
	}

	got := calc.AreaMetrics(areaCycle(), consumption, nil, lookups, nil)
	require.Len(t, got, 2)
	assert.InDelta(t, 80.0, got[0].FeedCost, 1e-9)
	assert.Zero(t, got[1].FeedCost)
}

func TestAreaMetricsAttributedButOutOfWindowDropped(t *testing.T) {
	calc := newTestCalculator()
	consumption := []models.ConsumptionEvent{
		{ID: "e1", Date: day(2024, time.March, 10), AreaID: sp("a1"), Quantity: 100, Cost: 80},
	}

	got := calc.AreaMetrics(areaCycle(), consumption, nil, areaLookups(), nil)
	require.Len(t, got, 2)
	assert.Zero(t, got[0].FeedCost)
}

func TestAreaMetricsFilter(t *testing.T) {
	calc := newTestCalculator()

	got := calc.AreaMetrics(areaCycle(), nil, nil, areaLookups(), []string{"a2"})
	require.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].Key)

	got = calc.AreaMetrics(areaCycle(), nil, nil, areaLookups(), nil)
	assert.Len(t, got, 2)
}

func TestAreaMetricsMergesDetailsSharingGroup(t *testing.T) {
	calc := newTestCalculator()
	cycle := models.Cycle{
		ID:    "c1",
		Start: day(2024, time.January, 1),
		End:   dayp(2024, time.January, 31),
		Details: []models.GroupDetail{
			{ID: "d1", Count: 30, AreaGroupID: sp("g1"), Start: day(2024, time.January, 1)},
			{ID: "d2", Count: 20, AreaGroupID: sp("g1"), Start: day(2024, time.January, 1)},
		},
	}

	got := calc.AreaMetrics(cycle, nil, nil, Lookups{}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].Animals)
}

func TestAreaMetricsUnresolvedPricesYieldNilProfit(t *testing.T) {
	calc := newTestCalculator()
	cycle := models.Cycle{
		ID:    "c1",
		Start: day(2024, time.January, 1),
		End:   dayp(2024, time.January, 31),
		Details: []models.GroupDetail{
			{ID: "d1", Count: 10, AreaID: sp("a1"), Start: day(2024, time.January, 1)},
		},
	}

	got := calc.AreaMetrics(cycle, nil, nil, Lookups{}, nil)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].BuyPrice)
	assert.Nil(t, got[0].SellPrice)
	assert.Nil(t, got[0].DirectProfitPerAnimal)
	assert.Nil(t, got[0].FullProfitPerAnimal)
}

func TestHeadCountAllocator(t *testing.T) {
	alloc := HeadCountAllocator{}
	assert.InDelta(t, 10.0, alloc.PerAnimal(1000, 60, 100), 1e-9)
	assert.InDelta(t, 10.0, alloc.PerAnimal(1000, 40, 100), 1e-9)
	assert.Zero(t, alloc.PerAnimal(1000, 0, 100))
	assert.Zero(t, alloc.PerAnimal(1000, 10, 0))
}
