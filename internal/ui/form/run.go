package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/rentwise/internal/pricing"
	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/wizard"
)

// ErrAborted is returned when the user cancels the wizard.
var ErrAborted = errors.New("property creation cancelled")

// DefaultQuoteNights is the stay length suggested for a quote preview.
const DefaultQuoteNights = 7

// Submitter performs the final submission. The default calls w.Submit.
type Submitter func(ctx context.Context, w *wizard.Wizard) (*property.Created, error)

// Option configures Run.
type Option func(*runner)

// WithOutput sets where notices and errors are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(r *runner) { r.out = w }
}

// WithSubmitter replaces the default submission.
func WithSubmitter(s Submitter) Option {
	return func(r *runner) { r.submit = s }
}

// WithQuoteNights sets the suggested quote length.
func WithQuoteNights(n int) Option {
	return func(r *runner) { r.quoteNights = n }
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type runner struct {
	w           *wizard.Wizard
	out         io.Writer
	submit      Submitter
	quoteNights int
	formatter   *pricing.Formatter
}

// Run walks the user through every step of w until the property is created
// or the user cancels. The caller owns w and should Close it afterwards;
// Close is a no-op after a successful submission.
func Run(ctx context.Context, w *wizard.Wizard, opts ...Option) (*property.Created, error) {
	r := &runner{
		w:           w,
		out:         os.Stderr,
		quoteNights: DefaultQuoteNights,
		formatter:   pricing.NewFormatter(),
		submit: func(ctx context.Context, w *wizard.Wizard) (*property.Created, error) {
			return w.Submit(ctx)
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			created *property.Created
			err     error
		)
		switch w.Step() {
		case wizard.StepBasicInfo:
			v := basicInfoFrom(w.Draft())
			err = r.step(func(choice *nav) error { return runBasicInfo(ctx, v, choice) }, v.apply)
		case wizard.StepDetails:
			v := detailsFrom(w.Draft())
			err = r.step(func(choice *nav) error { return runDetails(ctx, v, choice) }, v.apply)
		case wizard.StepPricing:
			v := pricingFrom(w.Draft())
			err = r.step(func(choice *nav) error { return runPricing(ctx, v, choice) }, v.apply)
		case wizard.StepPhotos:
			created, err = r.photos(ctx)
		default:
			return nil, fmt.Errorf("unexpected wizard step %d", w.Step())
		}

		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrAborted
			}
			return nil, err
		}
		if created != nil {
			return created, nil
		}
	}
}

// step runs one step form, stores the answers and moves in the chosen
// direction. Validation problems are printed and the step is shown again.
func (r *runner) step(show func(*nav) error, apply func(*property.Draft) error) error {
	var choice nav
	if err := show(&choice); err != nil {
		return err
	}
	if choice == navCancel {
		return ErrAborted
	}

	var applyErr error
	if err := r.w.Update(func(d *property.Draft) { applyErr = apply(d) }); err != nil {
		return err
	}
	if applyErr != nil {
		r.errorf("%v", applyErr)
		return nil
	}

	if choice == navBack {
		return r.w.Previous()
	}
	if err := r.w.Next(); err != nil {
		if r.reportValidation(err) {
			return nil
		}
		return err
	}
	return nil
}

// photos shows the photos step menu once and performs the chosen action.
// A non-nil result means the property was created.
func (r *runner) photos(ctx context.Context) (*property.Created, error) {
	var choice action
	if err := runPhotoMenu(ctx, r.w.Photos(), &choice); err != nil {
		return nil, err
	}

	switch choice {
	case actionAdd:
		return nil, r.addPhotos(ctx)
	case actionRemove:
		var index int
		if err := runRemovePhoto(ctx, r.w.Photos(), &index); err != nil {
			return nil, err
		}
		return nil, r.w.RemovePhoto(index)
	case actionQuote:
		return nil, r.quote(ctx)
	case actionBack:
		return nil, r.w.Previous()
	case actionCancel:
		return nil, ErrAborted
	}

	created, err := r.submit(ctx, r.w)
	if err == nil {
		return created, nil
	}
	if r.reportValidation(err) {
		return nil, nil
	}
	var serr *wizard.SubmitError
	if errors.As(err, &serr) {
		r.errorf("Failed to create property: %v", serr.Err)
		return nil, nil
	}
	return nil, err
}

func (r *runner) addPhotos(ctx context.Context) error {
	var input string
	if err := runAddPhotos(ctx, &input); err != nil {
		return err
	}
	paths := splitPaths(input)
	if len(paths) == 0 {
		return nil
	}
	files, err := LoadPhotos(paths)
	if err != nil {
		r.errorf("%v", err)
		return nil
	}
	return r.addFiles(files)
}

func (r *runner) addFiles(files []wizard.PhotoFile) error {
	result, err := r.w.AddPhotos(files)
	if result != nil {
		for _, n := range result.Notices {
			r.noticef("Skipped: %v", n)
		}
	}
	var uerr *wizard.UploadError
	if errors.As(err, &uerr) {
		r.errorf("%v", uerr)
		return nil
	}
	return err
}

func (r *runner) quote(ctx context.Context) error {
	nights := strconv.Itoa(suggestedNights(r.w.Draft(), r.quoteNights))
	if err := runQuoteNights(ctx, &nights); err != nil {
		return err
	}
	n, err := strconv.Atoi(nights)
	if err != nil {
		r.errorf("%v", errNotANumber)
		return nil
	}
	q, err := pricing.NewQuote(r.w.Draft(), n)
	if err != nil {
		r.errorf("%v", err)
		return nil
	}
	fmt.Fprintln(r.out, r.formatter.FormatQuote(q))
	return nil
}

// suggestedNights clamps want to the draft's stay limits.
func suggestedNights(d property.Draft, want int) int {
	n := want
	if n < d.MinNights {
		n = d.MinNights
	}
	if d.MaxNights != nil && *d.MaxNights > 0 && n > *d.MaxNights {
		n = *d.MaxNights
	}
	if n < 1 {
		n = 1
	}
	return n
}

// reportValidation prints field errors and reports whether err was one.
func (r *runner) reportValidation(err error) bool {
	ve, ok := property.AsValidationErrors(err)
	if !ok {
		return false
	}
	r.errorf("Please fix the following:")
	for _, fe := range ve.Errors {
		r.errorf("  %s: %s", fe.Field, fe.Message)
	}
	return true
}

func (r *runner) errorf(format string, v ...interface{}) {
	fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf(format, v...)))
}

func (r *runner) noticef(format string, v ...interface{}) {
	fmt.Fprintln(r.out, noticeStyle.Render(fmt.Sprintf(format, v...)))
}
