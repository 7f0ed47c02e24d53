package property

import "time"

// Type is the kind of rental property.
type Type string

// Property types accepted by the wizard.
const (
	TypeApartment Type = "apartment"
	TypeHouse     Type = "house"
	TypeOffice    Type = "office"
	TypeStudio    Type = "studio"
	TypeOther     Type = "other"
)

// Types lists all property types in display order.
var Types = []Type{TypeApartment, TypeHouse, TypeOffice, TypeStudio, TypeOther}

// Label returns a human-readable label for the type.
func (t Type) Label() string {
	switch t {
	case TypeApartment:
		return "Apartment"
	case TypeHouse:
		return "House"
	case TypeOffice:
		return "Office"
	case TypeStudio:
		return "Studio"
	case TypeOther:
		return "Other"
	default:
		return string(t)
	}
}

// Defaults applied to a fresh draft.
const (
	DefaultMinNights   = 1
	DefaultCleaningFee = 0.0
)

// Draft is the in-memory property record built up by the wizard.
//
// Numeric fields that have no default are pointers so that "not entered"
// can be told apart from zero.
type Draft struct {
	// Basic info
	Name      string `json:"name" validate:"required,max=100"`
	Type      Type   `json:"type" validate:"required,oneof=apartment house office studio other"`
	Street    string `json:"addressStreet" validate:"required"`
	City      string `json:"addressCity" validate:"required"`
	State     string `json:"addressState" validate:"required"`
	Zip       string `json:"addressZip" validate:"required"`
	Country   string `json:"addressCountry" validate:"required"`
	Bedrooms  *int   `json:"bedrooms" validate:"required,min=0,max=20"`
	Bathrooms *int   `json:"bathrooms" validate:"required,min=0,max=20"`
	MaxGuests *int   `json:"maxGuests" validate:"required,min=1,max=20"`

	// Details
	Description string     `json:"description" validate:"max=1000"`
	HouseRules  string     `json:"houseRules,omitempty"`
	Amenities   AmenitySet `json:"amenities"`

	// Pricing & availability. MaxNights is deliberately not checked
	// against MinNights.
	BaseRate    *float64 `json:"baseRate" validate:"required,gt=0"`
	CleaningFee float64  `json:"cleaningFee" validate:"min=0"`
	MinNights   int      `json:"minNights" validate:"min=1"`
	MaxNights   *int     `json:"maxNights,omitempty"`
}

// NewDraft returns an empty draft with defaults applied.
func NewDraft() Draft {
	return Draft{
		Amenities:   AmenitySet{},
		CleaningFee: DefaultCleaningFee,
		MinNights:   DefaultMinNights,
	}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	out.Bedrooms = cloneInt(d.Bedrooms)
	out.Bathrooms = cloneInt(d.Bathrooms)
	out.MaxGuests = cloneInt(d.MaxGuests)
	out.MaxNights = cloneInt(d.MaxNights)
	if d.BaseRate != nil {
		v := *d.BaseRate
		out.BaseRate = &v
	}
	out.Amenities = d.Amenities.Clone()
	return out
}

// Address returns the single-line postal address.
func (d Draft) Address() string {
	return d.Street + ", " + d.City + ", " + d.State + " " + d.Zip + ", " + d.Country
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int returns a pointer to v. Used to fill optional numeric draft fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Photo is an image attached to a draft.
type Photo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Size returns the photo size in bytes.
func (p Photo) Size() int64 {
	return int64(len(p.Data))
}

// Created is returned by a creation boundary after a successful submission.
type Created struct {
	ID        string    `json:"id"`
	PhotoURLs []string  `json:"photoUrls,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
