package models

import "time"

// PricingMode says which rule produced the animal purchase/sales figures of a
// CycleMetrics record.
type PricingMode string

const (
	// PricingFlagged sums purchases over is_start_group details and sales
	// over is_end_group details only.
	PricingFlagged PricingMode = "flagged"
	// PricingLegacy sums over every detail with a resolved price; used for
	// cycles recorded before the start/end flags existed.
	PricingLegacy PricingMode = "legacy"
)

// CycleMetrics is the complete KPI snapshot for one cycle. It is always
// produced whole by a single calculation call and never partially updated.
// A nil pointer field means "cannot be computed", which is distinct from a
// computed zero.
type CycleMetrics struct {
	CycleID            string      `json:"cycle_id"`
	PricingMode        PricingMode `json:"pricing_mode"`
	TotalAnimals       int         `json:"total_animals"`
	AnimalsWithWeights int         `json:"animals_with_weights"`
	WeightGain         float64     `json:"weight_gain"`
	CycleDays          int         `json:"cycle_days"`

	TotalFeedQuantity   float64 `json:"total_feed_quantity"`
	ConsumptionFeedCost float64 `json:"consumption_feed_cost"`
	TotalFeedCost       float64 `json:"total_feed_cost"`
	AdditionalCosts     float64 `json:"additional_costs"`

	AnimalPurchaseCost float64 `json:"animal_purchase_cost"`
	AnimalSalesRevenue float64 `json:"animal_sales_revenue"`
	AdditionalIncome   float64 `json:"additional_income"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalCosts         float64 `json:"total_costs"`
	ProfitLoss         float64 `json:"profit_loss"`
	ProfitMarginPct    float64 `json:"profit_margin_pct"`

	FeedConversionRatio float64 `json:"feed_conversion_ratio"`
	FeedCostPerKgGain   float64 `json:"feed_cost_per_kg_gain"`
	FeedCostPerAnimal   float64 `json:"feed_cost_per_animal"`
	DailyFeedCost       float64 `json:"daily_feed_cost"`
	FeedEfficiency      float64 `json:"feed_efficiency"`

	DailyGainGrams    *float64 `json:"daily_gain_grams"`
	NetDailyGainGrams *float64 `json:"net_daily_gain_grams"`
}

// AreaMetrics holds the per-location share of a cycle's KPIs. Key is the area
// id, or the area-group id for group-located details.
type AreaMetrics struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	IsGroup bool   `json:"is_group"`
	Animals int    `json:"animals"`

	FeedQuantity            float64 `json:"feed_quantity"`
	FeedCost                float64 `json:"feed_cost"`
	FeedCostPerAnimal       float64 `json:"feed_cost_per_animal"`
	DailyFeedCost           float64 `json:"daily_feed_cost"`
	FeedCostPerKgGain       float64 `json:"feed_cost_per_kg_gain"`
	ShareOfCycleFeedCostPct float64 `json:"share_of_cycle_feed_cost_pct"`

	AllocatedCostPerAnimal float64  `json:"allocated_cost_per_animal"`
	BuyPrice               *float64 `json:"buy_price"`
	SellPrice              *float64 `json:"sell_price"`
	TotalCostPerAnimal     float64  `json:"total_cost_per_animal"`

	// DirectProfitPerAnimal ignores allocated shared costs; FullProfitPerAnimal
	// includes them. Both are nil when the group's prices do not resolve.
	DirectProfitPerAnimal *float64 `json:"direct_profit_per_animal"`
	FullProfitPerAnimal   *float64 `json:"full_profit_per_animal"`
}

// FeedComponentSummary aggregates a cycle's consumption for one feed type.
type FeedComponentSummary struct {
	FeedTypeID   string  `json:"feed_type_id"`
	FeedTypeName string  `json:"feed_type_name"`
	Quantity     float64 `json:"quantity"`
	Cost         float64 `json:"cost"`

	AvgPrice             float64 `json:"avg_price"`
	ShareOfFeedCostPct   float64 `json:"share_of_feed_cost_pct"`
	DailyQuantity        float64 `json:"daily_quantity"`
	QuantityPerAnimalDay float64 `json:"quantity_per_animal_day"`
	QuantityPerAnimal    float64 `json:"quantity_per_animal"`
}

// MetricsSnapshot is the persisted form of a computed CycleMetrics, written to
// MongoDB after each evaluation run.
type MetricsSnapshot struct {
	ID         string       `bson:"_id" json:"id"`
	FarmID     string       `bson:"farm_id" json:"farm_id"`
	CycleID    string       `bson:"cycle_id" json:"cycle_id"`
	ComputedAt time.Time    `bson:"computed_at" json:"computed_at"`
	Metrics    CycleMetrics `bson:"metrics" json:"metrics"`
}
