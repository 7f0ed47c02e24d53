package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imamik/rentwise/internal/auth"
	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/store"
	"github.com/imamik/rentwise/internal/wizard"
)

// errBadRequest marks malformed input.
var errBadRequest = errors.New("bad request")

// writeError maps err onto a status code and the JSON error body the
// remote client understands.
func (s *Server) writeError(c *gin.Context, err error) {
	if ve, ok := property.AsValidationErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": ve.Errors})
		return
	}

	var uerr *wizard.UploadError
	if errors.As(err, &uerr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": uerr.Error(), "kind": uerr.Kind})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, property.ErrUnknownAmenity),
		errors.Is(err, auth.ErrPasswordTooShort):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, wizard.ErrPhotoIndex),
		errors.Is(err, wizard.ErrUnknownHandle),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, creator.ErrPhotoNotFound):
		status = http.StatusNotFound
	case errors.Is(err, wizard.ErrSubmissionInFlight),
		errors.Is(err, wizard.ErrNotOnFinalStep):
		status = http.StatusConflict
	case errors.Is(err, wizard.ErrClosed):
		status = http.StatusGone
	default:
		var serr *wizard.SubmitError
		if errors.As(err, &serr) {
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		s.observer.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
