package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imamik/rentwise/internal/config"
	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/ui/form"
	"github.com/imamik/rentwise/internal/ui/tui"
	"github.com/imamik/rentwise/internal/wizard"
)

// CreateOptions are the flags of `rentwise create`.
type CreateOptions struct {
	ConfigPath string
	APIURL     string
	Photos     []string
}

// Factory function variables for create - can be replaced in tests.
var (
	// runForm drives the wizard interactively.
	runForm = form.Run

	// runSubmitTUI shows submission progress.
	runSubmitTUI = func(ctx context.Context, m tui.Model, relay *tui.Relay, submit func(context.Context) (*property.Created, error)) (*property.Created, error) {
		return tui.RunSubmit(ctx, m, relay, submit)
	}
)

// Create runs the property wizard in the terminal.
func Create(ctx context.Context, opts CreateOptions) error {
	if !isInteractiveTTY() {
		return errors.New("rentwise create needs an interactive terminal")
	}

	cfg, _, err := loadConfig(opts.ConfigPath, opts.APIURL)
	if err != nil {
		return err
	}

	// Log lines would tear the forms, so events only feed the progress view.
	relay := tui.NewRelay(observe.Nop{})

	c, target, cleanup, err := newCreator(ctx, cfg, relay)
	if err != nil {
		return err
	}
	defer cleanup()

	w := wizard.New(c,
		wizard.WithObserver(relay),
		wizard.WithPreviewStore(wizard.NewTempDirStore("")),
	)
	defer w.Close()

	if len(opts.Photos) > 0 {
		if err := preloadPhotos(w, opts.Photos); err != nil {
			return err
		}
	}

	printWelcome(target)

	created, err := runForm(ctx, w, form.WithSubmitter(func(ctx context.Context, w *wizard.Wizard) (*property.Created, error) {
		m := tui.NewSubmitModel(w.Draft().Name, len(w.Photos()), target)
		return runSubmitTUI(ctx, m, relay, w.Submit)
	}))
	if errors.Is(err, form.ErrAborted) {
		fmt.Println("Cancelled. Nothing was saved.")
		return nil
	}
	if err != nil {
		return err
	}

	printCreateSuccess(created)
	return nil
}

// newCreator returns the creation boundary for cfg: a client for a remote
// server, or the local service over the database and photo backend.
func newCreator(ctx context.Context, cfg *config.Config, obs observe.Observer) (wizard.Creator, string, func(), error) {
	if cfg.API.Remote() {
		if cfg.API.Token == "" {
			return nil, "", nil, fmt.Errorf("no token for %s: run 'rentwise login' first", cfg.API.BaseURL)
		}
		return creator.NewClient(cfg.API.BaseURL, creator.WithToken(cfg.API.Token)), cfg.API.BaseURL, func() {}, nil
	}

	st, err := openStore(ctx, cfg.Database.Path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open database: %w", err)
	}
	photos, closePhotos, err := openPhotoStore(ctx, cfg, obs)
	if err != nil {
		st.Close()
		return nil, "", nil, fmt.Errorf("failed to open photo store: %w", err)
	}
	pub, err := dialEvents(ctx, cfg, obs, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: events disabled: %v\n", err)
		pub = nil
	}

	cleanup := func() {
		if pub != nil {
			pub.Close()
		}
		closePhotos()
		st.Close()
	}
	return creator.NewService(st, photos, serviceOptions(pub, obs)...), "local", cleanup, nil
}

func preloadPhotos(w *wizard.Wizard, paths []string) error {
	files, err := form.LoadPhotos(paths)
	if err != nil {
		return err
	}
	result, err := w.AddPhotos(files)
	if result != nil {
		for _, n := range result.Notices {
			fmt.Printf("Skipped: %v\n", n)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to attach photos: %w", err)
	}
	return nil
}

func printWelcome(target string) {
	fmt.Println()
	fmt.Println("rentwise - list a rental property")
	fmt.Println("=================================")
	fmt.Println()
	fmt.Println("Four short steps: basic info, details, pricing, photos.")
	if target != "local" {
		fmt.Printf("The property will be created on %s.\n", target)
	}
	fmt.Println()
}

func printCreateSuccess(created *property.Created) {
	fmt.Println()
	fmt.Println("Property created!")
	fmt.Println()
	fmt.Printf("  ID:      %s\n", created.ID)
	for i, u := range created.PhotoURLs {
		fmt.Printf("  Photo %d: %s\n", i+1, u)
	}
	fmt.Println()
	fmt.Println("List your properties with 'rentwise properties'.")
}
