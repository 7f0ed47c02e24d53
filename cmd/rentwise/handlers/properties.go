package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/pricing"
	"github.com/imamik/rentwise/internal/store"
)

// ListOptions are the flags of `rentwise properties`.
type ListOptions struct {
	ConfigPath string
	APIURL     string
	Query      string
	Status     string
	Page       int
	PageSize   int
	JSON       bool
}

// propertyLister is implemented by *store.Store and *creator.Client.
type propertyLister interface {
	ListProperties(ctx context.Context, f store.Filter) (*store.Page, error)
}

// listOutput is where listings are written - can be replaced in tests.
var listOutput io.Writer = os.Stdout

// ListProperties prints one page of properties.
func ListProperties(ctx context.Context, opts ListOptions) error {
	status, err := store.ParseStatus(opts.Status)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(opts.ConfigPath, opts.APIURL)
	if err != nil {
		return err
	}

	var lister propertyLister
	if cfg.API.Remote() {
		lister = creator.NewClient(cfg.API.BaseURL, creator.WithToken(cfg.API.Token))
	} else {
		st, err := openStore(ctx, cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer st.Close()
		lister = st
	}

	page, err := lister.ListProperties(ctx, store.Filter{
		Query:    opts.Query,
		Status:   status,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	})
	if err != nil {
		return fmt.Errorf("failed to list properties: %w", err)
	}

	if opts.JSON {
		b, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Fprintln(listOutput, string(b))
		return nil
	}

	fmt.Fprint(listOutput, renderPage(page))
	return nil
}

// renderPage formats a listing page as a table.
func renderPage(page *store.Page) string {
	var b strings.Builder
	if len(page.Items) == 0 {
		b.WriteString("No properties found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-36s  %-24s  %-9s  %-10s  %s\n", "ID", "NAME", "STATUS", "RATE", "CITY")
	for _, rec := range page.Items {
		rate := "-"
		if rec.Draft.BaseRate != nil {
			rate = pricing.Currency(*rec.Draft.BaseRate, 2)
		}
		fmt.Fprintf(&b, "%-36s  %-24s  %-9s  %-10s  %s\n",
			rec.ID, truncate(rec.Draft.Name, 24), rec.Status, rate, rec.Draft.City)
	}
	fmt.Fprintf(&b, "\nPage %d of %d (%d properties)\n", page.Page, page.TotalPages, page.Total)
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
