package metrics

// EstimateParams is the reduced input set the data-entry preview works with
// before full consumption data exists.
type EstimateParams struct {
	TotalAnimals    int      `json:"total_animals"`
	BuyPrice        *float64 `json:"buy_price,omitempty"`
	SellPrice       *float64 `json:"sell_price,omitempty"`
	TotalFeedCost   *float64 `json:"total_feed_cost,omitempty"`
	AdditionalCosts *float64 `json:"additional_costs,omitempty"`
}

// EstimateProfitLoss previews a cycle's profit or loss from aggregate inputs.
// It is algebraically the same revenue/cost decomposition the full cycle
// calculation uses, so preview and authoritative figures agree for equivalent
// inputs. Nil means "no preview possible", returned when there are no
// animals; that is not the same as a zero profit.
func EstimateProfitLoss(p EstimateParams) *float64 {
	if p.TotalAnimals == 0 {
		return nil
	}
	n := float64(p.TotalAnimals)
	v := n*deref(p.SellPrice) - n*deref(p.BuyPrice) - deref(p.TotalFeedCost) - deref(p.AdditionalCosts)
	return &v
}
