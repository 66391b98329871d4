package models

import "github.com/shopspring/decimal"

// RecommendationAction is the call an advisor makes on an instrument.
type RecommendationAction string

const (
	ActionBuy  RecommendationAction = "buy"
	ActionSell RecommendationAction = "sell"
	ActionHold RecommendationAction = "hold"
)

// Valid reports whether a is buy, sell, or hold.
func (a RecommendationAction) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionHold:
		return true
	}
	return false
}

// RecommendationStatus is the lifecycle state of a recommendation.
// Any status may move to any other.
type RecommendationStatus string

const (
	StatusOngoing      RecommendationStatus = "ongoing"
	StatusSuccessful   RecommendationStatus = "successful"
	StatusUnsuccessful RecommendationStatus = "unsuccessful"
)

// Valid reports whether s is ongoing, successful, or unsuccessful.
func (s RecommendationStatus) Valid() bool {
	switch s {
	case StatusOngoing, StatusSuccessful, StatusUnsuccessful:
		return true
	}
	return false
}

// Timeframes are the accepted recommendation horizons, in months.
var Timeframes = []int{3, 6, 12}

// ValidTimeframe reports whether months is one of Timeframes.
func ValidTimeframe(months int) bool {
	for _, tf := range Timeframes {
		if tf == months {
			return true
		}
	}
	return false
}

// Recommendation is a single buy/sell/hold call on an instrument.
// Everything except Status and OutcomeNotes is fixed once created.
type Recommendation struct {
	Base
	AdvisorID       string               `gorm:"type:uuid;not null;index" json:"advisor_id"`
	StockSymbol     string               `gorm:"not null;index" json:"stock_symbol"`
	Action          RecommendationAction `gorm:"not null" json:"action"`
	TargetPrice     decimal.Decimal      `gorm:"type:numeric(14,4);not null" json:"target_price" swaggertype:"string"`
	Reasoning       string               `gorm:"type:text;not null" json:"reasoning"`
	ConfidenceLevel int                  `gorm:"not null" json:"confidence_level"`
	Timeframe       int                  `gorm:"not null" json:"timeframe"`
	Status          RecommendationStatus `gorm:"not null;default:'ongoing';index" json:"status"`
	OutcomeNotes    *string              `gorm:"type:text" json:"outcome_notes,omitempty"`

	// Relationships
	Advisor *Advisor `gorm:"foreignKey:AdvisorID" json:"advisor,omitempty"`
}
