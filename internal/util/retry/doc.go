// Package retry retries idempotent operations with exponential backoff.
//
// It is used for start-up work against external services such as ensuring
// the photo bucket exists or dialling the message broker. Property
// submissions are never retried automatically.
package retry
