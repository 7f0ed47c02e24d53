package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/imamik/rentwise/internal/config"
	"github.com/imamik/rentwise/internal/creator"
)

// LoginOptions are the flags of `rentwise login`.
type LoginOptions struct {
	ConfigPath string
	APIURL     string
	Username   string
}

// Factory function variables for login - can be replaced in tests.
var (
	// promptCredentials asks for whatever is missing. A nil username is
	// not asked for.
	promptCredentials = func(ctx context.Context, username, password *string) error {
		var fields []huh.Field
		if username != nil && *username == "" {
			fields = append(fields, huh.NewInput().Title("Username").Value(username))
		}
		if *password == "" {
			fields = append(fields, huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password))
		}
		if len(fields) == 0 {
			return nil
		}
		return huh.NewForm(huh.NewGroup(fields...).Title("rentwise login")).RunWithContext(ctx)
	}

	saveConfig = config.Save
)

// Login exchanges credentials for a token and saves the server URL and
// token to the configuration file.
func Login(ctx context.Context, opts LoginOptions) error {
	cfg, path, err := loadConfig(opts.ConfigPath, opts.APIURL)
	if err != nil {
		return err
	}
	if !cfg.API.Remote() {
		return errors.New("no server configured: pass --api or set api.base_url")
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	username := opts.Username
	password := os.Getenv("RENTWISE_PASSWORD")
	if username == "" || password == "" {
		if !isInteractiveTTY() {
			return errors.New("username and RENTWISE_PASSWORD are required without a terminal")
		}
		if err := promptCredentials(ctx, &username, &password); err != nil {
			return err
		}
	}

	resp, err := creator.NewClient(cfg.API.BaseURL).Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.API.Token = resp.Token
	if err := saveConfig(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Logged in to %s as %s.\n", cfg.API.BaseURL, username)
	fmt.Printf("Token saved to %s (expires %s).\n", path, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
