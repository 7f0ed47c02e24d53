// Package async runs independent tasks concurrently with an optional
// concurrency limit. The creation service uses it to write photos to the
// photo store in parallel.
package async
