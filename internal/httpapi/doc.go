// Package httpapi serves the property wizard over HTTP.
//
// Each authenticated user can open wizard sessions that live in an
// in-memory cache with an idle TTL. The session routes map one-to-one onto
// wizard operations; submission goes through the same Creator the CLI
// uses. Remote CLI clients post finished drafts to /api/properties.
package httpapi
