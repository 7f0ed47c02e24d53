package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/wizard"
)

// nav is the navigation choice at the end of a step form.
type nav string

const (
	navNext   nav = "next"
	navBack   nav = "back"
	navCancel nav = "cancel"
)

func navSelect(step wizard.Step, choice *nav) *huh.Select[nav] {
	opts := []huh.Option[nav]{huh.NewOption("Continue", navNext)}
	if step > wizard.StepBasicInfo {
		opts = append(opts, huh.NewOption("Back", navBack))
	}
	opts = append(opts, huh.NewOption("Cancel", navCancel))
	*choice = navNext
	return huh.NewSelect[nav]().
		Title("Next").
		Options(opts...).
		Value(choice)
}

func typeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(property.Types))
	for _, t := range property.Types {
		opts = append(opts, huh.NewOption(t.Label(), string(t)))
	}
	return opts
}

func amenityOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(property.Amenities))
	for _, a := range property.Amenities {
		opts = append(opts, huh.NewOption(a.Label, a.ID))
	}
	return opts
}

func stepTitle(step wizard.Step) string {
	return fmt.Sprintf("Step %d of %d: %s", int(step), len(wizard.Steps), step.Title())
}

// runBasicInfo shows the basic information form.
func runBasicInfo(ctx context.Context, v *basicInfo, choice *nav) error {
	if v.Type == "" {
		v.Type = string(property.TypeApartment)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Property Name").
				Placeholder("Sunny downtown loft").
				Value(&v.Name).
				Validate(check(property.FieldName, func(d *property.Draft, s string) error {
					d.Name = strings.TrimSpace(s)
					return nil
				})),
			huh.NewSelect[string]().
				Title("Property Type").
				Options(typeOptions()...).
				Value(&v.Type),
		).Title(stepTitle(wizard.StepBasicInfo)),
		huh.NewGroup(
			huh.NewInput().Title("Street").Value(&v.Street).
				Validate(check(property.FieldStreet, func(d *property.Draft, s string) error {
					d.Street = strings.TrimSpace(s)
					return nil
				})),
			huh.NewInput().Title("City").Value(&v.City).
				Validate(check(property.FieldCity, func(d *property.Draft, s string) error {
					d.City = strings.TrimSpace(s)
					return nil
				})),
			huh.NewInput().Title("State").Value(&v.State).
				Validate(check(property.FieldState, func(d *property.Draft, s string) error {
					d.State = strings.TrimSpace(s)
					return nil
				})),
			huh.NewInput().Title("ZIP Code").Value(&v.Zip).
				Validate(check(property.FieldZip, func(d *property.Draft, s string) error {
					d.Zip = strings.TrimSpace(s)
					return nil
				})),
			huh.NewInput().Title("Country").Value(&v.Country).
				Validate(check(property.FieldCountry, func(d *property.Draft, s string) error {
					d.Country = strings.TrimSpace(s)
					return nil
				})),
		).Title("Address"),
		huh.NewGroup(
			huh.NewInput().Title("Bedrooms").Value(&v.Bedrooms).
				Validate(check(property.FieldBedrooms, setInt(func(d *property.Draft) **int { return &d.Bedrooms }))),
			huh.NewInput().Title("Bathrooms").Value(&v.Bathrooms).
				Validate(check(property.FieldBathrooms, setInt(func(d *property.Draft) **int { return &d.Bathrooms }))),
			huh.NewInput().Title("Maximum Guests").Value(&v.MaxGuests).
				Validate(check(property.FieldMaxGuests, setInt(func(d *property.Draft) **int { return &d.MaxGuests }))),
			navSelect(wizard.StepBasicInfo, choice),
		).Title("Capacity"),
	).RunWithContext(ctx)
}

// runDetails shows the details form.
func runDetails(ctx context.Context, v *details, choice *nav) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Description").
				Description("Up to 1000 characters").
				CharLimit(1000).
				Value(&v.Description),
			huh.NewText().
				Title("House Rules (Optional)").
				Value(&v.HouseRules),
			huh.NewMultiSelect[string]().
				Title("Amenities").
				Options(amenityOptions()...).
				Value(&v.Amenities),
			navSelect(wizard.StepDetails, choice),
		).Title(stepTitle(wizard.StepDetails)),
	).RunWithContext(ctx)
}

// runPricing shows the pricing and availability form.
func runPricing(ctx context.Context, v *pricingAnswers, choice *nav) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base Rate per Night (USD)").
				Placeholder("150").
				Value(&v.BaseRate).
				Validate(check(property.FieldBaseRate, func(d *property.Draft, s string) error {
					rate, err := parseOptionalFloat(s)
					d.BaseRate = rate
					return err
				})),
			huh.NewInput().
				Title("Cleaning Fee (USD)").
				Value(&v.CleaningFee).
				Validate(check(property.FieldCleaningFee, func(d *property.Draft, s string) error {
					fee, err := parseOptionalFloat(s)
					if fee != nil {
						d.CleaningFee = *fee
					}
					return err
				})),
			huh.NewInput().
				Title("Minimum Nights").
				Value(&v.MinNights).
				Validate(check(property.FieldMinNights, func(d *property.Draft, s string) error {
					n, err := parseOptionalInt(s)
					d.MinNights = 0
					if n != nil {
						d.MinNights = *n
					}
					return err
				})),
			huh.NewInput().
				Title("Maximum Nights (Optional)").
				Value(&v.MaxNights).
				Validate(func(s string) error {
					_, err := parseOptionalInt(s)
					return err
				}),
			navSelect(wizard.StepPricing, choice),
		).Title(stepTitle(wizard.StepPricing)),
	).RunWithContext(ctx)
}

// action is a photos step menu entry.
type action string

const (
	actionAdd    action = "add"
	actionRemove action = "remove"
	actionQuote  action = "quote"
	actionSubmit action = "submit"
	actionBack   action = "back"
	actionCancel action = "cancel"
)

func runPhotoMenu(ctx context.Context, photos []wizard.Photo, choice *action) error {
	opts := []huh.Option[action]{huh.NewOption("Add photos", actionAdd)}
	if len(photos) > 0 {
		opts = append(opts, huh.NewOption("Remove a photo", actionRemove))
	}
	opts = append(opts,
		huh.NewOption("Preview a stay quote", actionQuote),
		huh.NewOption("Create property", actionSubmit),
		huh.NewOption("Back", actionBack),
		huh.NewOption("Cancel", actionCancel),
	)
	*choice = actionSubmit

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Photos (%d of %d)", len(photos), wizard.MaxPhotos)).
				Description(photoList(photos)),
			huh.NewSelect[action]().
				Title("What next?").
				Options(opts...).
				Value(choice),
		).Title(stepTitle(wizard.StepPhotos)),
	).RunWithContext(ctx)
}

func runAddPhotos(ctx context.Context, input *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Photo Files").
				Description(fmt.Sprintf("Comma-separated paths, up to %d photos of 5MB each", wizard.MaxPhotos)).
				Placeholder("front.jpg, kitchen.jpg").
				Value(input),
		).Title("Add Photos"),
	).RunWithContext(ctx)
}

func runRemovePhoto(ctx context.Context, photos []wizard.Photo, index *int) error {
	opts := make([]huh.Option[int], 0, len(photos))
	for i, p := range photos {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d. %s", i+1, p.Name), i))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Remove which photo?").
				Options(opts...).
				Value(index),
		).Title("Remove Photo"),
	).RunWithContext(ctx)
}

func runQuoteNights(ctx context.Context, nights *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nights").
				Value(nights).
				Validate(func(s string) error {
					n, err := parseOptionalInt(s)
					if err != nil {
						return err
					}
					if n == nil || *n < 1 {
						return fmt.Errorf("enter at least 1 night")
					}
					return nil
				}),
		).Title("Stay Quote"),
	).RunWithContext(ctx)
}

func photoList(photos []wizard.Photo) string {
	if len(photos) == 0 {
		return "No photos yet. Photos are optional."
	}
	lines := make([]string, 0, len(photos))
	for i, p := range photos {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, p.Name, formatSize(p.Size())))
	}
	return strings.Join(lines, "\n")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
