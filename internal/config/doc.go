// Package config loads rentwise.yaml.
//
// The file is looked up in the working directory and its parents. Values
// missing from the file fall back to defaults, and a fixed set of
// environment variables override file values so secrets never have to be
// written to disk.
package config
