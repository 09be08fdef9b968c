package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

func TestEffectiveStartWeightExplicitWins(t *testing.T) {
	cycle := models.Cycle{StartWeight: fp(25)}
	d := models.GroupDetail{StartWeight: fp(30)}
	got := EffectiveStartWeight(d, cycle)
	require.NotNil(t, got)
	assert.Equal(t, 30.0, *got)
}

func TestEffectiveStartWeightUsesSourceEndWeight(t *testing.T) {
	// The chain must hand over the source's end weight, never its start
	// weight, even when the source carries both.
	cycle := models.Cycle{
		Details: []models.GroupDetail{
			{ID: "src", Count: 100, StartWeight: fp(30), EndWeight: fp(120)},
			{ID: "dst", Count: 100, StartWeightSourceID: sp("src")},
		},
	}
	got := EffectiveStartWeight(cycle.Details[1], cycle)
	require.NotNil(t, got)
	assert.Equal(t, 120.0, *got)
}

func TestEffectiveStartWeightIncompleteSourceFallsThrough(t *testing.T) {
	cycle := models.Cycle{
		StartWeight: fp(28),
		Details: []models.GroupDetail{
			{ID: "src", Count: 100, StartWeight: fp(30)}, // no end weight yet
			{ID: "dst", Count: 100, StartWeightSourceID: sp("src")},
		},
	}
	got := EffectiveStartWeight(cycle.Details[1], cycle)
	require.NotNil(t, got)
	assert.Equal(t, 28.0, *got)
}

func TestEffectiveStartWeightDanglingSourceFallsThrough(t *testing.T) {
	cycle := models.Cycle{
		Details: []models.GroupDetail{
			{ID: "dst", Count: 100, StartWeightSourceID: sp("missing")},
		},
	}
	assert.Nil(t, EffectiveStartWeight(cycle.Details[0], cycle))
}

func TestEffectiveStartWeightDestinationAveragesStartGroups(t *testing.T) {
	cycle := models.Cycle{
		Details: []models.GroupDetail{
			{ID: "a", Count: 60, IsStartGroup: true, StartWeight: fp(30)},
			{ID: "b", Count: 40, IsStartGroup: true, StartWeight: fp(40)},
			{ID: "dst", Count: 100, IsEndGroup: true},
		},
	}
	got := EffectiveStartWeight(cycle.Details[2], cycle)
	require.NotNil(t, got)
	assert.InDelta(t, 34.0, *got, 1e-9)
}

func TestEffectiveStartWeightStartAndEndGroupSkipsAverage(t *testing.T) {
	// A detail that is both start and end group is not a pure destination;
	// it falls back to the cycle default instead of the average.
	cycle := models.Cycle{
		StartWeight: fp(20),
		Details: []models.GroupDetail{
			{ID: "a", Count: 60, IsStartGroup: true, StartWeight: fp(30)},
			{ID: "both", Count: 40, IsStartGroup: true, IsEndGroup: true},
		},
	}
	got := EffectiveStartWeight(cycle.Details[1], cycle)
	require.NotNil(t, got)
	assert.Equal(t, 20.0, *got)
}

func TestEffectiveStartWeightUnresolved(t *testing.T) {
	cycle := models.Cycle{Start: day(2024, time.January, 1)}
	assert.Nil(t, EffectiveStartWeight(models.GroupDetail{Count: 10}, cycle))
}

func TestEffectiveEndWeightDirectThenCycle(t *testing.T) {
	cycle := models.Cycle{EndWeight: fp(110)}

	got := EffectiveEndWeight(models.GroupDetail{EndWeight: fp(120)}, cycle)
	require.NotNil(t, got)
	assert.Equal(t, 120.0, *got)

	got = EffectiveEndWeight(models.GroupDetail{}, cycle)
	require.NotNil(t, got)
	assert.Equal(t, 110.0, *got)

	assert.Nil(t, EffectiveEndWeight(models.GroupDetail{}, models.Cycle{}))
}

func TestEffectivePrices(t *testing.T) {
	cycle := models.Cycle{BuyPrice: fp(45), SellPrice: fp(190)}

	buy := EffectiveBuyPrice(models.GroupDetail{BuyPrice: fp(50)}, cycle)
	require.NotNil(t, buy)
	assert.Equal(t, 50.0, *buy)

	buy = EffectiveBuyPrice(models.GroupDetail{}, cycle)
	require.NotNil(t, buy)
	assert.Equal(t, 45.0, *buy)

	sell := EffectiveSellPrice(models.GroupDetail{}, cycle)
	require.NotNil(t, sell)
	assert.Equal(t, 190.0, *sell)

	assert.Nil(t, EffectiveBuyPrice(models.GroupDetail{}, models.Cycle{}))
	assert.Nil(t, EffectiveSellPrice(models.GroupDetail{}, models.Cycle{}))
}
