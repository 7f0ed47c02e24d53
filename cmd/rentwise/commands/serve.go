package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rentwise/cmd/rentwise/handlers"
)

// Serve returns the command that runs the HTTP API.
//
// Environment variables:
//
//	JWT_SECRET: signing key for access tokens (required)
//	S3_ACCESS_KEY, S3_SECRET_KEY: credentials for the s3 photo backend
func Serve() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rentwise HTTP API",
		Long: `Serve the wizard and property endpoints over HTTP.

Clients log in at /api/auth/login, open a wizard session, patch the draft
step by step, upload photos and submit. Idle sessions expire after
server.session_ttl and release their photo previews.

Photos are stored in S3 (or MinIO), in MongoDB GridFS, or in memory,
depending on photos.backend. When events.amqp_url is set every created
property is announced on the configured RabbitMQ queue.

Prometheus metrics are served at /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
