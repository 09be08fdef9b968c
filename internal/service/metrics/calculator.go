package metrics

import (
	"strings"
	"time"

	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

// Calculator derives cycle KPIs from in-memory record collections. Every
// method is a pure transformation: no I/O, no shared state, safe for
// concurrent use. The only time dependency is the injected clock, used when a
// cycle or detail has no end date yet.
type Calculator struct {
	alloc CostAllocator
	now   func() time.Time
}

// NewCalculator wires a calculator. A nil allocator defaults to head-count
// allocation, a nil clock to time.Now.
func NewCalculator(alloc CostAllocator, now func() time.Time) *Calculator {
	if alloc == nil {
		alloc = HeadCountAllocator{}
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{alloc: alloc, now: now}
}

// isFeedCategory reports whether a cost transaction's category reclassifies
// it as feed cost. The match is case-insensitive.
func isFeedCategory(category string) bool {
	return strings.EqualFold(category, models.FeedCostCategory)
}

// DeterminePricingMode inspects a cycle's active details and reports which
// animal-pricing rule applies: flagged when any detail carries a start/end
// group marker, legacy otherwise.
func DeterminePricingMode(details []models.GroupDetail) models.PricingMode {
	for _, d := range details {
		if d.Count <= 0 {
			continue
		}
		if d.IsStartGroup || d.IsEndGroup {
			return models.PricingFlagged
		}
	}
	return models.PricingLegacy
}

// activeDetails drops inert zero-count details up front; they never
// contribute to population, consumption filtering or cost allocation.
func activeDetails(details []models.GroupDetail) []models.GroupDetail {
	out := make([]models.GroupDetail, 0, len(details))
	for _, d := range details {
		if d.Count > 0 {
			out = append(out, d)
		}
	}
	return out
}

// CycleMetrics produces the complete KPI record for one cycle from its
// details plus the supplied consumption, cost and income collections.
func (c *Calculator) CycleMetrics(cycle models.Cycle, consumption []models.ConsumptionEvent, costs []models.CostTransaction, incomes []models.IncomeTransaction, lookups Lookups) models.CycleMetrics {
	now := c.now()
	active := activeDetails(cycle.Details)

	m := models.CycleMetrics{
		CycleID:     cycle.ID,
		PricingMode: DeterminePricingMode(active),
	}

	m.TotalAnimals = MaxSimultaneous(populationEntries(active), cycle.Start, cycle.End)

	// Weight gain: count-weighted average across details where both weights
	// resolve. Details missing either weight stay out of the average and out
	// of the animals-with-weights denominator.
	var weightedGain float64
	for _, d := range active {
		sw := EffectiveStartWeight(d, cycle)
		ew := EffectiveEndWeight(d, cycle)
		if sw == nil || ew == nil {
			continue
		}
		weightedGain += float64(d.Count) * (*ew - *sw)
		m.AnimalsWithWeights += d.Count
	}
	if m.AnimalsWithWeights > 0 {
		m.WeightGain = weightedGain / float64(m.AnimalsWithWeights)
	} else {
		m.WeightGain = deref(cycle.EndWeight) - deref(cycle.StartWeight)
	}

	for _, ev := range ActiveConsumption(consumption, cycle, lookups, now) {
		m.TotalFeedQuantity += ev.Quantity
		m.ConsumptionFeedCost += ev.Cost
	}

	// Cost transactions in the feed category count as feed cost, everything
	// else is an additional cost.
	var feedTransactionCost float64
	for _, t := range costs {
		if isFeedCategory(t.Category) {
			feedTransactionCost += t.Amount
		} else {
			m.AdditionalCosts += t.Amount
		}
	}
	m.TotalFeedCost = m.ConsumptionFeedCost + feedTransactionCost

	// Animal purchase and sale. Flagged cycles price only their start and end
	// groups so a transferred animal is never billed at both locations;
	// legacy cycles price every detail with a resolved price.
	for _, d := range active {
		count := float64(d.Count)
		if m.PricingMode == models.PricingFlagged {
			if d.IsStartGroup {
				m.AnimalPurchaseCost += count * deref(EffectiveBuyPrice(d, cycle))
			}
			if d.IsEndGroup {
				m.AnimalSalesRevenue += count * deref(EffectiveSellPrice(d, cycle))
			}
			continue
		}
		if bp := EffectiveBuyPrice(d, cycle); bp != nil {
			m.AnimalPurchaseCost += count * *bp
		}
		if sp := EffectiveSellPrice(d, cycle); sp != nil {
			m.AnimalSalesRevenue += count * *sp
		}
	}

	for _, t := range incomes {
		m.AdditionalIncome += t.Amount
	}
	m.TotalRevenue = m.AnimalSalesRevenue + m.AdditionalIncome

	end := now
	if cycle.End != nil {
		end = *cycle.End
	}
	m.CycleDays = inclusiveDays(cycle.Start, end)

	m.TotalCosts = m.TotalFeedCost + m.AdditionalCosts + m.AnimalPurchaseCost
	m.ProfitLoss = m.TotalRevenue - m.TotalCosts
	if m.TotalRevenue != 0 {
		m.ProfitMarginPct = m.ProfitLoss / m.TotalRevenue * 100
	}

	gainedKg := float64(m.AnimalsWithWeights) * m.WeightGain
	if m.WeightGain > 0 && m.AnimalsWithWeights > 0 {
		m.FeedConversionRatio = m.TotalFeedQuantity / gainedKg
		m.FeedCostPerKgGain = m.TotalFeedCost / gainedKg
	}
	if m.TotalAnimals > 0 {
		m.FeedCostPerAnimal = m.TotalFeedCost / float64(m.TotalAnimals)
	}
	if m.CycleDays > 0 {
		m.DailyFeedCost = m.TotalFeedCost / float64(m.CycleDays)
	}
	if m.TotalFeedCost > 0 {
		m.FeedEfficiency = gainedKg / m.TotalFeedCost
	}

	// Nil, not zero: an absent daily gain is "cannot be computed".
	if m.CycleDays > 0 && m.WeightGain > 0 {
		v := m.WeightGain / float64(m.CycleDays) * 1000
		m.DailyGainGrams = &v
	}
	if cycle.SlaughterWeight != nil && cycle.TotalLifetimeDays != nil && *cycle.TotalLifetimeDays > 0 {
		v := *cycle.SlaughterWeight / float64(*cycle.TotalLifetimeDays) * 1000
		m.NetDailyGainGrams = &v
	}

	return m
}
