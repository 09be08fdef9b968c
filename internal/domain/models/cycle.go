package models

import "time"

// Cycle represents one production run ("Durchgang") on a farm. The optional
// weight and price fields act as cycle-wide fallbacks when a detail does not
// carry its own value.
type Cycle struct {
	ID                string       `json:"id"`
	FarmID            string       `json:"farm_id"`
	Name              string       `json:"name,omitempty"`
	Start             time.Time    `json:"start_date"`
	End               *time.Time   `json:"end_date,omitempty"`
	StartWeight       *float64     `json:"weight_per_animal,omitempty"`
	EndWeight         *float64     `json:"actual_weight_per_animal,omitempty"`
	BuyPrice          *float64     `json:"price_per_animal,omitempty"`
	SellPrice         *float64     `json:"sell_price_per_animal,omitempty"`
	MortalityRate     *float64     `json:"mortality_rate,omitempty"`
	SlaughterWeight   *float64     `json:"slaughter_weight,omitempty"`
	TotalLifetimeDays *int         `json:"total_lifetime_days,omitempty"`
	ProfitLoss        *float64     `json:"profit_loss,omitempty"`
	Details           []GroupDetail `json:"livestock_count_details,omitempty"`
}

// Open reports whether the cycle has no end date yet.
func (c Cycle) Open() bool {
	return c.End == nil
}

// GroupDetail is one (count, timeframe, location) record within a cycle.
// Exactly one of AreaID/AreaGroupID is set in valid data. A detail with
// Count == 0 is inert and excluded from every calculation.
type GroupDetail struct {
	ID                  string     `json:"id"`
	Count               int        `json:"count"`
	Start               time.Time  `json:"start_date"`
	End                 *time.Time `json:"end_date,omitempty"`
	AreaID              *string    `json:"area_id,omitempty"`
	AreaGroupID         *string    `json:"area_group_id,omitempty"`
	AnimalType          string     `json:"animal_type,omitempty"`
	StartWeight         *float64   `json:"weight_per_animal,omitempty"`
	EndWeight           *float64   `json:"actual_weight_per_animal,omitempty"`
	BuyPrice            *float64   `json:"price_per_animal,omitempty"`
	SellPrice           *float64   `json:"sell_price_per_animal,omitempty"`
	IsStartGroup        bool       `json:"is_start_group"`
	IsEndGroup          bool       `json:"is_end_group"`
	StartWeightSourceID *string    `json:"start_weight_source_detail_id,omitempty"`
}
