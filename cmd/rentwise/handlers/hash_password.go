package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imamik/rentwise/internal/auth"
)

// HashPassword prints the bcrypt hash of a password read from
// RENTWISE_PASSWORD or the terminal.
func HashPassword(ctx context.Context, w io.Writer) error {
	password := os.Getenv("RENTWISE_PASSWORD")
	if password == "" {
		if !isInteractiveTTY() {
			return errors.New("RENTWISE_PASSWORD is required without a terminal")
		}
		if err := promptCredentials(ctx, nil, &password); err != nil {
			return err
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, hash)
	return nil
}
