// Package pricing computes stay quotes for a property draft and the ROI
// estimate shown by the calculator.
package pricing

import (
	"errors"
	"fmt"

	"github.com/imamik/rentwise/internal/property"
)

// Sentinel errors.
var (
	ErrNoBaseRate      = errors.New("base rate is not set")
	ErrBelowMinNights  = errors.New("stay is shorter than the minimum nights")
	ErrAboveMaxNights  = errors.New("stay is longer than the maximum nights")
	ErrInvalidNights   = errors.New("nights must be positive")
	ErrNegativeROIArgs = errors.New("roi inputs must not be negative")
)

// WeeksPerYear converts weekly savings to annual savings.
const WeeksPerYear = 52

// LineItem is a single entry of a quote.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitType    string  `json:"unitType"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// String returns a formatted string representation of the line item.
func (l LineItem) String() string {
	return fmt.Sprintf("%s: %d× %s @ $%.2f = $%.2f",
		l.Description, l.Quantity, l.UnitType, l.UnitPrice, l.Total)
}

// Quote is the price of a stay of a given length.
type Quote struct {
	Property string     `json:"property"`
	Nights   int        `json:"nights"`
	Items    []LineItem `json:"items"`
	Total    float64    `json:"total"`
}

// NightlyAverage returns the total spread over the nights of the stay.
func (q *Quote) NightlyAverage() float64 {
	if q.Nights == 0 {
		return 0
	}
	return q.Total / float64(q.Nights)
}

// NewQuote prices a stay of nights at the draft's rates. The stay must
// respect the draft's minimum and, when set, maximum nights.
func NewQuote(d property.Draft, nights int) (*Quote, error) {
	if d.BaseRate == nil {
		return nil, ErrNoBaseRate
	}
	if nights <= 0 {
		return nil, ErrInvalidNights
	}
	if nights < d.MinNights {
		return nil, fmt.Errorf("%w: %d < %d", ErrBelowMinNights, nights, d.MinNights)
	}
	if d.MaxNights != nil && *d.MaxNights > 0 && nights > *d.MaxNights {
		return nil, fmt.Errorf("%w: %d > %d", ErrAboveMaxNights, nights, *d.MaxNights)
	}

	rate := *d.BaseRate
	q := &Quote{
		Property: d.Name,
		Nights:   nights,
		Items: []LineItem{{
			Description: "Nightly rate",
			Quantity:    nights,
			UnitType:    "night",
			UnitPrice:   rate,
			Total:       rate * float64(nights),
		}},
	}
	if d.CleaningFee > 0 {
		q.Items = append(q.Items, LineItem{
			Description: "Cleaning fee",
			Quantity:    1,
			UnitType:    "stay",
			UnitPrice:   d.CleaningFee,
			Total:       d.CleaningFee,
		})
	}
	for _, item := range q.Items {
		q.Total += item.Total
	}
	return q, nil
}

// ROIInput holds the calculator inputs.
type ROIInput struct {
	TeamSize           float64 `json:"teamSize"`
	HoursPerWeek       float64 `json:"hoursPerWeek"`
	HourlyRate         float64 `json:"hourlyRate"`
	ImplementationCost float64 `json:"implementationCost"`
}

// ROIEstimate is the calculator result. Both figures are floored at zero.
type ROIEstimate struct {
	Input         ROIInput `json:"input"`
	WeeklySavings float64  `json:"weeklySavings"`
	AnnualSavings float64  `json:"annualSavings"`
	ROIPercent    float64  `json:"roiPercent"`
}

// ROI estimates annual savings and return on investment. ROI is zero when
// the implementation cost is zero.
func ROI(in ROIInput) (*ROIEstimate, error) {
	if in.TeamSize < 0 || in.HoursPerWeek < 0 || in.HourlyRate < 0 || in.ImplementationCost < 0 {
		return nil, ErrNegativeROIArgs
	}

	weekly := in.TeamSize * in.HoursPerWeek * in.HourlyRate
	annual := weekly * WeeksPerYear

	var roi float64
	if in.ImplementationCost != 0 {
		roi = (annual - in.ImplementationCost) / in.ImplementationCost * 100
	}

	return &ROIEstimate{
		Input:         in,
		WeeklySavings: weekly,
		AnnualSavings: max(annual, 0),
		ROIPercent:    max(roi, 0),
	}, nil
}
