package property

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single field that failed its constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failing field of a validation pass.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the message recorded for field (json name), if any.
func (e *ValidationErrors) Message(field string) (string, bool) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// Fields returns the failing field names in report order.
func (e *ValidationErrors) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

// AsValidationErrors unwraps err into *ValidationErrors.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Field names of Draft, as accepted by ValidateFields.
const (
	FieldName        = "Name"
	FieldType        = "Type"
	FieldStreet      = "Street"
	FieldCity        = "City"
	FieldState       = "State"
	FieldZip         = "Zip"
	FieldCountry     = "Country"
	FieldBedrooms    = "Bedrooms"
	FieldBathrooms   = "Bathrooms"
	FieldMaxGuests   = "MaxGuests"
	FieldDescription = "Description"
	FieldBaseRate    = "BaseRate"
	FieldCleaningFee = "CleaningFee"
	FieldMinNights   = "MinNights"
)

// messages maps (field, tag) to the user-facing message.
var messages = map[string]map[string]string{
	FieldName: {
		"required": "Property name is required",
		"max":      "Name must be less than 100 characters",
	},
	FieldType: {
		"required": "Property type is required",
		"oneof":    "Property type is required",
	},
	FieldStreet:  {"required": "Street address is required"},
	FieldCity:    {"required": "City is required"},
	FieldState:   {"required": "State is required"},
	FieldZip:     {"required": "ZIP code is required"},
	FieldCountry: {"required": "Country is required"},
	FieldBedrooms: {
		"required": "Bedrooms is required",
		"min":      "Must be at least 0",
		"max":      "Must be less than 20",
	},
	FieldBathrooms: {
		"required": "Bathrooms is required",
		"min":      "Must be at least 0",
		"max":      "Must be less than 20",
	},
	FieldMaxGuests: {
		"required": "Maximum guests is required",
		"min":      "Must accommodate at least 1 guest",
		"max":      "Must be less than 20",
	},
	FieldDescription: {"max": "Description must be less than 1000 characters"},
	FieldBaseRate: {
		"required": "Base rate is required",
		"gt":       "Base rate must be greater than 0",
	},
	FieldCleaningFee: {"min": "Cleaning fee cannot be negative"},
	FieldMinNights:   {"min": "Minimum nights must be at least 1"},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	draftFields  map[string]bool
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		draftFields = map[string]bool{}
		t := reflect.TypeOf(Draft{})
		for i := 0; i < t.NumField(); i++ {
			draftFields[t.Field(i).Name] = true
		}
	})
	return validate
}

// ValidateFields validates only the named Draft fields. A nil error means
// every named field satisfies its constraint. Unknown field names are a
// programming error and are returned wrapped in ErrUnknownField.
func ValidateFields(d Draft, fields []string) error {
	v := instance()
	if len(fields) == 0 {
		return nil
	}
	for _, f := range fields {
		if !draftFields[f] {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return translate(v.StructPartial(d, fields...))
}

// Validate checks the whole draft.
func Validate(d Draft) error {
	return translate(instance().Struct(d))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}
	out := &ValidationErrors{}
	seen := map[string]bool{}
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe.StructField(), fe.Tag(), fe.Param()),
		})
	}
	return out
}

func messageFor(field, tag, param string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	if param != "" {
		return fmt.Sprintf("failed %s=%s", tag, param)
	}
	return "failed " + tag
}
