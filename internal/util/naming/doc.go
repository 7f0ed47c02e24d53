// Package naming provides consistent names for stored photo objects and
// preview files.
//
// Photo objects are keyed properties/{property}/{index}-{photo}{.ext} so a
// property's photos list in upload order under one prefix, whatever the
// backend (S3 bucket, GridFS or memory).
package naming
