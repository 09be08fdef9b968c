package metrics

import "github.com/agrarwerk/stallbuch/internal/domain/models"

// EffectiveStartWeight resolves a detail's start weight through the fallback
// chain: explicit value, end weight of the linked source detail, count-
// weighted average of the cycle's start-group weights (for pure destination
// details), cycle default. Nil means the weight cannot be resolved, which
// callers must treat distinctly from zero.
func EffectiveStartWeight(d models.GroupDetail, cycle models.Cycle) *float64 {
	if d.StartWeight != nil {
		return d.StartWeight
	}
	if d.StartWeightSourceID != nil {
		if src := findDetail(cycle.Details, *d.StartWeightSourceID); src != nil && src.EndWeight != nil {
			// The chain hands over the source's *end* weight; an incomplete
			// source (no end weight yet) falls through to the next tier.
			return src.EndWeight
		}
	}
	if d.IsEndGroup && !d.IsStartGroup {
		if avg := startGroupAverageWeight(cycle.Details); avg != nil {
			return avg
		}
	}
	return cycle.StartWeight
}

// EffectiveEndWeight resolves a detail's end weight: explicit value, then the
// cycle default. End weights have no chaining tier.
func EffectiveEndWeight(d models.GroupDetail, cycle models.Cycle) *float64 {
	if d.EndWeight != nil {
		return d.EndWeight
	}
	return cycle.EndWeight
}

// EffectiveBuyPrice resolves a detail's purchase price per animal.
func EffectiveBuyPrice(d models.GroupDetail, cycle models.Cycle) *float64 {
	if d.BuyPrice != nil {
		return d.BuyPrice
	}
	return cycle.BuyPrice
}

// EffectiveSellPrice resolves a detail's sale price per animal.
func EffectiveSellPrice(d models.GroupDetail, cycle models.Cycle) *float64 {
	if d.SellPrice != nil {
		return d.SellPrice
	}
	return cycle.SellPrice
}

func findDetail(details []models.GroupDetail, id string) *models.GroupDetail {
	for i := range details {
		if details[i].ID == id {
			return &details[i]
		}
	}
	return nil
}

// startGroupAverageWeight returns the count-weighted average of the explicit
// start weights of all start-group details, or nil when none carry one.
func startGroupAverageWeight(details []models.GroupDetail) *float64 {
	var weighted float64
	var count int
	for _, d := range details {
		if !d.IsStartGroup || d.Count <= 0 || d.StartWeight == nil {
			continue
		}
		weighted += float64(d.Count) * *d.StartWeight
		count += d.Count
	}
	if count == 0 {
		return nil
	}
	avg := weighted / float64(count)
	return &avg
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
