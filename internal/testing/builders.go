package testing

import (
	"github.com/imamik/rentwise/internal/property"
)

// DraftBuilder provides a fluent interface for constructing test drafts.
// Each method returns a new builder (immutable) for chaining.
type DraftBuilder struct {
	d property.Draft
}

// NewDraftBuilder creates a builder whose draft passes full validation.
func NewDraftBuilder() *DraftBuilder {
	d := property.NewDraft()
	d.Name = "Cabin"
	d.Type = property.TypeHouse
	d.Street = "1 Forest Rd"
	d.City = "Aspen"
	d.State = "CO"
	d.Zip = "81611"
	d.Country = "US"
	d.Bedrooms = property.Int(2)
	d.Bathrooms = property.Int(1)
	d.MaxGuests = property.Int(4)
	d.BaseRate = property.Float(150)
	return &DraftBuilder{d: d}
}

// EmptyDraftBuilder starts from a fresh draft with only defaults set.
func EmptyDraftBuilder() *DraftBuilder {
	return &DraftBuilder{d: property.NewDraft()}
}

// WithName sets the property name.
func (b *DraftBuilder) WithName(name string) *DraftBuilder {
	nb := b.clone()
	nb.d.Name = name
	return nb
}

// WithType sets the property type.
func (b *DraftBuilder) WithType(t property.Type) *DraftBuilder {
	nb := b.clone()
	nb.d.Type = t
	return nb
}

// WithAddress sets every address field.
func (b *DraftBuilder) WithAddress(street, city, state, zip, country string) *DraftBuilder {
	nb := b.clone()
	nb.d.Street, nb.d.City, nb.d.State, nb.d.Zip, nb.d.Country = street, city, state, zip, country
	return nb
}

// WithCapacity sets bedrooms, bathrooms and maximum guests.
func (b *DraftBuilder) WithCapacity(bedrooms, bathrooms, guests int) *DraftBuilder {
	nb := b.clone()
	nb.d.Bedrooms = property.Int(bedrooms)
	nb.d.Bathrooms = property.Int(bathrooms)
	nb.d.MaxGuests = property.Int(guests)
	return nb
}

// WithDescription sets the description.
func (b *DraftBuilder) WithDescription(s string) *DraftBuilder {
	nb := b.clone()
	nb.d.Description = s
	return nb
}

// WithAmenities replaces the amenity selection. Unknown ids panic.
func (b *DraftBuilder) WithAmenities(ids ...string) *DraftBuilder {
	set, err := property.NewAmenitySet(ids...)
	if err != nil {
		panic(err)
	}
	nb := b.clone()
	nb.d.Amenities = set
	return nb
}

// WithBaseRate sets the nightly rate.
func (b *DraftBuilder) WithBaseRate(rate float64) *DraftBuilder {
	nb := b.clone()
	nb.d.BaseRate = property.Float(rate)
	return nb
}

// WithoutBaseRate clears the nightly rate.
func (b *DraftBuilder) WithoutBaseRate() *DraftBuilder {
	nb := b.clone()
	nb.d.BaseRate = nil
	return nb
}

// WithCleaningFee sets the cleaning fee.
func (b *DraftBuilder) WithCleaningFee(fee float64) *DraftBuilder {
	nb := b.clone()
	nb.d.CleaningFee = fee
	return nb
}

// WithStay sets the minimum nights and, when max > 0, the maximum.
func (b *DraftBuilder) WithStay(minNights, maxNights int) *DraftBuilder {
	nb := b.clone()
	nb.d.MinNights = minNights
	nb.d.MaxNights = nil
	if maxNights > 0 {
		nb.d.MaxNights = property.Int(maxNights)
	}
	return nb
}

// Build returns a copy of the draft.
func (b *DraftBuilder) Build() property.Draft {
	return b.d.Clone()
}

// Apply overwrites d with the built draft. It fits wizard.Update.
func (b *DraftBuilder) Apply(d *property.Draft) {
	*d = b.Build()
}

func (b *DraftBuilder) clone() *DraftBuilder {
	return &DraftBuilder{d: b.d.Clone()}
}

// ValidDraft returns a draft that passes full validation.
func ValidDraft() property.Draft {
	return NewDraftBuilder().Build()
}
