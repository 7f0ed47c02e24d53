// Package creator implements the property creation boundary used by the
// wizard.
//
// [Service] creates properties locally: it re-validates the draft, writes
// photos to a [PhotoStore] in parallel, stores the record in one
// transaction and announces it on the event bus. [Client] does the same
// through a remote rentwise server's REST API.
package creator
