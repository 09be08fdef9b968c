package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

func TestEstimateProfitLossFormula(t *testing.T) {
	got := EstimateProfitLoss(EstimateParams{
		TotalAnimals:    100,
		BuyPrice:        fp(50),
		SellPrice:       fp(200),
		TotalFeedCost:   fp(225),
		AdditionalCosts: fp(800),
	})
	require.NotNil(t, got)
	assert.InDelta(t, 13975.0, *got, 1e-9)
}

func TestEstimateProfitLossMissingInputsAreZero(t *testing.T) {
	got := EstimateProfitLoss(EstimateParams{TotalAnimals: 10, SellPrice: fp(200)})
	require.NotNil(t, got)
	assert.InDelta(t, 2000.0, *got, 1e-9)
}

func TestEstimateProfitLossZeroAnimalsIsNil(t *testing.T) {
	assert.Nil(t, EstimateProfitLoss(EstimateParams{
		TotalAnimals: 0,
		SellPrice:    fp(200),
	}))
}

// The preview must agree with the authoritative cycle calculation when fed
// equivalent aggregates through the legacy (unflagged) path.
func TestEstimateMatchesCycleMetrics(t *testing.T) {
	calc := newTestCalculator()
	costs := []models.CostTransaction{{ID: "t1", Amount: 800, Category: "Wartung"}}

	full := calc.CycleMetrics(scenarioCycle(), scenarioConsumption(), costs, nil, Lookups{})

	preview := EstimateProfitLoss(EstimateParams{
		TotalAnimals:    full.TotalAnimals,
		BuyPrice:        fp(50),
		SellPrice:       fp(200),
		TotalFeedCost:   fp(full.TotalFeedCost),
		AdditionalCosts: fp(full.AdditionalCosts),
	})
	require.NotNil(t, preview)
	assert.InDelta(t, full.ProfitLoss, *preview, 1e-9)
}
