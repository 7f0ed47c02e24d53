// Package property defines the rental property draft assembled by the
// creation wizard, its amenity catalog, and the schema used to validate it.
//
// Constraints live once, as validator struct tags on [Draft]. Callers
// validate a subset of fields with [ValidateFields] (the per-step case) or
// the whole draft with [Validate] (the submission case). Failures are
// reported as [ValidationErrors] with one user-facing message per field.
package property
