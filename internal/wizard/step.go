package wizard

import "github.com/imamik/rentwise/internal/property"

// Step is a wizard stage.
type Step int

// Wizard steps in order.
const (
	StepBasicInfo Step = iota + 1
	StepDetails
	StepPricing
	StepPhotos
)

// Steps lists every step in order.
var Steps = []Step{StepBasicInfo, StepDetails, StepPricing, StepPhotos}

// stepFields is the set of draft fields each step must satisfy before the
// wizard moves past it.
var stepFields = map[Step][]string{
	StepBasicInfo: {
		property.FieldName,
		property.FieldType,
		property.FieldStreet,
		property.FieldCity,
		property.FieldState,
		property.FieldZip,
		property.FieldCountry,
		property.FieldBedrooms,
		property.FieldBathrooms,
		property.FieldMaxGuests,
	},
	StepDetails: {property.FieldDescription},
	StepPricing: {property.FieldBaseRate, property.FieldMinNights, property.FieldCleaningFee},
	StepPhotos:  nil,
}

// Fields returns the draft fields validated when leaving s.
func (s Step) Fields() []string {
	return append([]string(nil), stepFields[s]...)
}

// Valid reports whether s is one of the four steps.
func (s Step) Valid() bool {
	return s >= StepBasicInfo && s <= StepPhotos
}

// String returns the step's machine name.
func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepDetails:
		return "details"
	case StepPricing:
		return "pricing"
	case StepPhotos:
		return "photos"
	default:
		return "unknown"
	}
}

// Title returns the step's display title.
func (s Step) Title() string {
	switch s {
	case StepBasicInfo:
		return "Basic Info"
	case StepDetails:
		return "Details"
	case StepPricing:
		return "Pricing"
	case StepPhotos:
		return "Photos"
	default:
		return "Unknown"
	}
}
