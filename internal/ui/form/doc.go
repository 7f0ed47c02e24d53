// Package form drives a wizard.Wizard from an interactive terminal using
// huh forms, one form per wizard step plus an action menu on the photos
// step.
//
// The forms only collect raw text. Parsing happens here and every
// constraint is checked by the property package, so the terminal shows the
// same messages the HTTP API returns.
package form
