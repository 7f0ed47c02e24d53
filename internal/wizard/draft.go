package wizard

import "github.com/imamik/rentwise/internal/property"

// Update applies fn to the draft. fn must not retain the pointer.
func (w *Wizard) Update(fn func(d *property.Draft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkMutable(); err != nil {
		return err
	}
	fn(&w.draft)
	if w.draft.Amenities == nil {
		w.draft.Amenities = property.AmenitySet{}
	}
	return nil
}

// SetName sets the property name.
func (w *Wizard) SetName(name string) error {
	return w.Update(func(d *property.Draft) { d.Name = name })
}

// SetType sets the property type.
func (w *Wizard) SetType(t property.Type) error {
	return w.Update(func(d *property.Draft) { d.Type = t })
}

// SetAddress sets every address field at once.
func (w *Wizard) SetAddress(street, city, state, zip, country string) error {
	return w.Update(func(d *property.Draft) {
		d.Street = street
		d.City = city
		d.State = state
		d.Zip = zip
		d.Country = country
	})
}

// SetBedrooms sets the bedroom count.
func (w *Wizard) SetBedrooms(n int) error {
	return w.Update(func(d *property.Draft) { d.Bedrooms = property.Int(n) })
}

// SetBathrooms sets the bathroom count.
func (w *Wizard) SetBathrooms(n int) error {
	return w.Update(func(d *property.Draft) { d.Bathrooms = property.Int(n) })
}

// SetMaxGuests sets the guest capacity.
func (w *Wizard) SetMaxGuests(n int) error {
	return w.Update(func(d *property.Draft) { d.MaxGuests = property.Int(n) })
}

// SetDescription sets the free-text description.
func (w *Wizard) SetDescription(s string) error {
	return w.Update(func(d *property.Draft) { d.Description = s })
}

// SetHouseRules sets the house rules.
func (w *Wizard) SetHouseRules(s string) error {
	return w.Update(func(d *property.Draft) { d.HouseRules = s })
}

// SetBaseRate sets the nightly base rate.
func (w *Wizard) SetBaseRate(rate float64) error {
	return w.Update(func(d *property.Draft) { d.BaseRate = property.Float(rate) })
}

// SetCleaningFee sets the per-stay cleaning fee.
func (w *Wizard) SetCleaningFee(fee float64) error {
	return w.Update(func(d *property.Draft) { d.CleaningFee = fee })
}

// SetMinNights sets the minimum stay.
func (w *Wizard) SetMinNights(n int) error {
	return w.Update(func(d *property.Draft) { d.MinNights = n })
}

// SetMaxNights sets the maximum stay. nil means unbounded.
func (w *Wizard) SetMaxNights(n *int) error {
	return w.Update(func(d *property.Draft) {
		if n == nil {
			d.MaxNights = nil
			return
		}
		d.MaxNights = property.Int(*n)
	})
}

// ToggleAmenity flips id in the amenity set and reports whether it is
// selected afterwards.
func (w *Wizard) ToggleAmenity(id string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkMutable(); err != nil {
		return false, err
	}
	return w.draft.Amenities.Toggle(id)
}
