// Package s3 stores property photos in an S3-compatible bucket (AWS S3,
// MinIO, Hetzner Object Storage and similar).
package s3
