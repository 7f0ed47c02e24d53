package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/rentwise/internal/property"
)

// basicInfo holds the raw answers of the basic information step.
type basicInfo struct {
	Name      string
	Type      string
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	Bedrooms  string
	Bathrooms string
	MaxGuests string
}

func basicInfoFrom(d property.Draft) *basicInfo {
	return &basicInfo{
		Name:      d.Name,
		Type:      string(d.Type),
		Street:    d.Street,
		City:      d.City,
		State:     d.State,
		Zip:       d.Zip,
		Country:   d.Country,
		Bedrooms:  formatInt(d.Bedrooms),
		Bathrooms: formatInt(d.Bathrooms),
		MaxGuests: formatInt(d.MaxGuests),
	}
}

func (v *basicInfo) apply(d *property.Draft) error {
	bedrooms, err := parseOptionalInt(v.Bedrooms)
	if err != nil {
		return fmt.Errorf("bedrooms: %w", err)
	}
	bathrooms, err := parseOptionalInt(v.Bathrooms)
	if err != nil {
		return fmt.Errorf("bathrooms: %w", err)
	}
	guests, err := parseOptionalInt(v.MaxGuests)
	if err != nil {
		return fmt.Errorf("max guests: %w", err)
	}

	d.Name = strings.TrimSpace(v.Name)
	d.Type = property.Type(v.Type)
	d.Street = strings.TrimSpace(v.Street)
	d.City = strings.TrimSpace(v.City)
	d.State = strings.TrimSpace(v.State)
	d.Zip = strings.TrimSpace(v.Zip)
	d.Country = strings.TrimSpace(v.Country)
	d.Bedrooms = bedrooms
	d.Bathrooms = bathrooms
	d.MaxGuests = guests
	return nil
}

// details holds the raw answers of the details step.
type details struct {
	Description string
	HouseRules  string
	Amenities   []string
}

func detailsFrom(d property.Draft) *details {
	return &details{
		Description: d.Description,
		HouseRules:  d.HouseRules,
		Amenities:   d.Amenities.IDs(),
	}
}

func (v *details) apply(d *property.Draft) error {
	set, err := property.NewAmenitySet(v.Amenities...)
	if err != nil {
		return err
	}
	d.Description = v.Description
	d.HouseRules = v.HouseRules
	d.Amenities = set
	return nil
}

// pricingAnswers holds the raw answers of the pricing step.
type pricingAnswers struct {
	BaseRate    string
	CleaningFee string
	MinNights   string
	MaxNights   string
}

func pricingFrom(d property.Draft) *pricingAnswers {
	v := &pricingAnswers{
		BaseRate:    formatFloat(d.BaseRate),
		CleaningFee: strconv.FormatFloat(d.CleaningFee, 'f', -1, 64),
		MinNights:   strconv.Itoa(d.MinNights),
		MaxNights:   formatInt(d.MaxNights),
	}
	return v
}

func (v *pricingAnswers) apply(d *property.Draft) error {
	rate, err := parseOptionalFloat(v.BaseRate)
	if err != nil {
		return fmt.Errorf("base rate: %w", err)
	}
	fee, err := parseOptionalFloat(v.CleaningFee)
	if err != nil {
		return fmt.Errorf("cleaning fee: %w", err)
	}
	minNights, err := parseOptionalInt(v.MinNights)
	if err != nil {
		return fmt.Errorf("minimum nights: %w", err)
	}
	maxNights, err := parseOptionalInt(v.MaxNights)
	if err != nil {
		return fmt.Errorf("maximum nights: %w", err)
	}

	d.BaseRate = rate
	d.CleaningFee = 0
	if fee != nil {
		d.CleaningFee = *fee
	}
	d.MinNights = 0
	if minNights != nil {
		d.MinNights = *minNights
	}
	d.MaxNights = maxNights
	return nil
}

var errNotANumber = errors.New("must be a number")

// parseOptionalInt parses s; blank input is nil.
func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errNotANumber
	}
	return &n, nil
}

// parseOptionalFloat parses s; blank input is nil. A leading "$" is allowed.
func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errNotANumber
	}
	return &f, nil
}

func formatInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// check returns a huh validator for one draft field. set writes the raw
// input into a scratch draft; the field is then checked with the same
// rules the wizard applies.
func check(field string, set func(d *property.Draft, s string) error) func(string) error {
	return func(s string) error {
		d := property.NewDraft()
		if err := set(&d, s); err != nil {
			return err
		}
		err := property.ValidateFields(d, []string{field})
		if ve, ok := property.AsValidationErrors(err); ok && len(ve.Errors) > 0 {
			return errors.New(ve.Errors[0].Message)
		}
		return err
	}
}

func setInt(dst func(d *property.Draft) **int) func(*property.Draft, string) error {
	return func(d *property.Draft, s string) error {
		n, err := parseOptionalInt(s)
		if err != nil {
			return err
		}
		*dst(d) = n
		return nil
	}
}
