package metrics

import (
	"github.com/agrarwerk/stallbuch/internal/domain/models"
)

// locationGroup collects the active details that share one metrics key: an
// area id, or an area-group id when the detail is located by group.
type locationGroup struct {
	key     string
	isGroup bool
	details []models.GroupDetail
	animals int
}

// AreaMetrics distributes a cycle's KPIs across its location groups. Shared
// non-feed costs are split by the configured allocation strategy; feed costs
// stay with the group whose areas consumed them. An empty areaFilter includes
// every group.
func (c *Calculator) AreaMetrics(cycle models.Cycle, consumption []models.ConsumptionEvent, costs []models.CostTransaction, lookups Lookups, areaFilter []string) []models.AreaMetrics {
	now := c.now()
	active := activeDetails(cycle.Details)

	filter := make(map[string]bool, len(areaFilter))
	for _, id := range areaFilter {
		filter[id] = true
	}

	var order []string
	byKey := make(map[string]*locationGroup)
	for _, d := range active {
		var key string
		var isGroup bool
		switch {
		case d.AreaGroupID != nil:
			key, isGroup = *d.AreaGroupID, true
		case d.AreaID != nil:
			key = *d.AreaID
		default:
			// Neither location reference; the detail cannot be attributed.
			continue
		}
		if len(filter) > 0 && !filter[key] {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &locationGroup{key: key, isGroup: isGroup}
			byKey[key] = g
			order = append(order, key)
		}
		g.details = append(g.details, d)
		g.animals += d.Count
	}

	totalAnimals := MaxSimultaneous(populationEntries(active), cycle.Start, cycle.End)
	end := now
	if cycle.End != nil {
		end = *cycle.End
	}
	cycleDays := inclusiveDays(cycle.Start, end)

	// Attribute consumption. Attribution (which group) and timeframe validity
	// (that detail's window) are independent filters; both must pass.
	feedQty := make(map[string]float64, len(byKey))
	feedCost := make(map[string]float64, len(byKey))
	var cycleFeedCost float64
	for _, ev := range consumption {
		g, candidates := attributeEvent(ev, byKey, order, lookups)
		if g == nil {
			continue
		}
		valid := false
		for _, d := range candidates {
			start, winEnd := detailWindow(d, cycle, now)
			if dateWithin(ev.Date, start, winEnd) {
				valid = true
				break
			}
		}
		if !valid {
			continue
		}
		feedQty[g.key] += ev.Quantity
		feedCost[g.key] += ev.Cost
		cycleFeedCost += ev.Cost
	}

	var additionalCosts float64
	for _, t := range costs {
		if !isFeedCategory(t.Category) {
			additionalCosts += t.Amount
		}
	}

	out := make([]models.AreaMetrics, 0, len(order))
	for _, key := range order {
		g := byKey[key]

		am := models.AreaMetrics{
			Key:          g.key,
			IsGroup:      g.isGroup,
			Animals:      g.animals,
			FeedQuantity: feedQty[g.key],
			FeedCost:     feedCost[g.key],
		}
		if g.isGroup {
			am.Name = lookups.GroupNames[g.key]
		} else {
			am.Name = lookups.AreaNames[g.key]
		}

		if g.animals > 0 {
			am.FeedCostPerAnimal = am.FeedCost / float64(g.animals)
		}
		if cycleDays > 0 {
			am.DailyFeedCost = am.FeedCost / float64(cycleDays)
		}
		if cycleFeedCost > 0 {
			am.ShareOfCycleFeedCostPct = am.FeedCost / cycleFeedCost * 100
		}

		var weightedGain float64
		var animalsWithWeights int
		var weightedBuy, weightedSell float64
		var buyAnimals, sellAnimals int
		for _, d := range g.details {
			sw := EffectiveStartWeight(d, cycle)
			ew := EffectiveEndWeight(d, cycle)
			if sw != nil && ew != nil {
				weightedGain += float64(d.Count) * (*ew - *sw)
				animalsWithWeights += d.Count
			}
			if bp := EffectiveBuyPrice(d, cycle); bp != nil {
				weightedBuy += float64(d.Count) * *bp
				buyAnimals += d.Count
			}
			if sp := EffectiveSellPrice(d, cycle); sp != nil {
				weightedSell += float64(d.Count) * *sp
				sellAnimals += d.Count
			}
		}
		if animalsWithWeights > 0 {
			gain := weightedGain / float64(animalsWithWeights)
			if gain > 0 {
				am.FeedCostPerKgGain = am.FeedCost / (float64(animalsWithWeights) * gain)
			}
		}
		if buyAnimals > 0 {
			buy := weightedBuy / float64(buyAnimals)
			am.BuyPrice = &buy
		}
		if sellAnimals > 0 {
			sell := weightedSell / float64(sellAnimals)
			am.SellPrice = &sell
		}

		am.AllocatedCostPerAnimal = c.alloc.PerAnimal(additionalCosts, g.animals, totalAnimals)
		am.TotalCostPerAnimal = deref(am.BuyPrice) + am.FeedCostPerAnimal + am.AllocatedCostPerAnimal

		// Direct answers "is this group worth its own feed", full answers
		// "does it carry its share of the whole cycle".
		if am.BuyPrice != nil && am.SellPrice != nil {
			direct := *am.SellPrice - *am.BuyPrice - am.FeedCostPerAnimal
			am.DirectProfitPerAnimal = &direct
		}
		if am.SellPrice != nil {
			full := *am.SellPrice - am.TotalCostPerAnimal
			am.FullProfitPerAnimal = &full
		}

		out = append(out, am)
	}
	return out
}

// attributeEvent resolves which location group a consumption event belongs
// to: direct area match first, then the area's group membership, then a
// textual area-name match as a last resort. It returns the candidate details
// whose windows may validate the event.
func attributeEvent(ev models.ConsumptionEvent, byKey map[string]*locationGroup, order []string, lookups Lookups) (*locationGroup, []models.GroupDetail) {
	if ev.AreaID == nil {
		return nil, nil
	}

	for _, key := range order {
		g := byKey[key]
		for _, d := range g.details {
			if d.AreaID != nil && *d.AreaID == *ev.AreaID {
				return g, []models.GroupDetail{d}
			}
		}
	}

	if groupID, ok := lookups.Memberships.GroupFor(*ev.AreaID); ok {
		if g, tracked := byKey[groupID]; tracked && g.isGroup {
			return g, g.details
		}
	}

	if name := lookups.AreaNames[*ev.AreaID]; name != "" {
		for _, key := range order {
			g := byKey[key]
			for _, d := range g.details {
				if d.AreaID != nil && lookups.AreaNames[*d.AreaID] == name {
					return g, []models.GroupDetail{d}
				}
			}
		}
	}

	return nil, nil
}
