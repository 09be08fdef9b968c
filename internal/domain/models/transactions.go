package models

import "time"

// ConsumptionEvent captures one feed delivery or usage record. Read-only
// input to the calculation core.
type ConsumptionEvent struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	Quantity   float64    `json:"quantity"`
	Cost       float64    `json:"cost"`
	FeedTypeID string     `json:"feed_type_id"`
	AreaID     *string    `json:"area_id,omitempty"`
	SupplierID *string    `json:"supplier_id,omitempty"`
}

// FeedCostCategory is the cost-transaction category that reclassifies a
// transaction as feed cost rather than a generic additional cost. The match
// is case-insensitive.
const FeedCostCategory = "Futterkosten"

// CostTransaction is a dated expense optionally tagged to a cycle.
type CostTransaction struct {
	ID       string    `json:"id"`
	CycleID  *string   `json:"livestock_count_id,omitempty"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category,omitempty"`
}

// IncomeTransaction is a dated income entry optionally tagged to a cycle.
type IncomeTransaction struct {
	ID      string    `json:"id"`
	CycleID *string   `json:"livestock_count_id,omitempty"`
	Date    time.Time `json:"date"`
	Amount  float64   `json:"amount"`
}
