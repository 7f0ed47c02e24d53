package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/wizard"
)

const (
	maxDraftBody    = 64 << 10
	maxUploadBody   = 128 << 20
	multipartMemory = 32 << 20
)

func (s *Server) session(c *gin.Context) (*wizard.Wizard, bool) {
	w, err := s.sessions.Get(c.Param("id"), subject(c))
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return w, true
}

func (s *Server) createWizard(c *gin.Context) {
	w := s.sessions.Create(subject(c))
	c.JSON(http.StatusCreated, newWizardView(w))
}

func (s *Server) getWizard(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newWizardView(w))
}

func (s *Server) discardWizard(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.session(c); !ok {
		return
	}
	s.sessions.Delete(id)
	c.Status(http.StatusNoContent)
}

// patchDraft merges the JSON body into the draft. Fields absent from the
// body keep their values; a null clears an optional numeric field.
func (s *Server) patchDraft(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDraftBody))
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var decodeErr error
	err = w.Update(func(d *property.Draft) {
		merged := d.Clone()
		if decodeErr = json.Unmarshal(body, &merged); decodeErr == nil {
			*d = merged
		}
	})
	if err == nil && decodeErr != nil {
		if errors.Is(decodeErr, property.ErrUnknownAmenity) {
			err = decodeErr
		} else {
			err = fmt.Errorf("%w: invalid draft JSON: %v", errBadRequest, decodeErr)
		}
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWizardView(w))
}

func (s *Server) toggleAmenity(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	amenity := c.Param("amenity")
	selected, err := w.ToggleAmenity(amenity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"amenity": amenity, "selected": selected, "amenities": w.Draft().Amenities})
}

func (s *Server) next(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	if err := w.Next(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWizardView(w))
}

func (s *Server) previous(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	if err := w.Previous(); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWizardView(w))
}

func (s *Server) addPhotos(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}

	files, err := readPhotoFiles(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := w.AddPhotos(files)
	var uerr *wizard.UploadError
	if errors.As(err, &uerr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   uerr.Error(),
			"kind":    uerr.Kind,
			"notices": newNoticeViews(result.Notices),
		})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	view := addPhotosView{
		Added:   make([]photoView, 0, len(result.Added)),
		Notices: newNoticeViews(result.Notices),
		Wizard:  newWizardView(w),
	}
	offset := len(view.Wizard.Photos) - len(result.Added)
	for i, p := range result.Added {
		view.Added = append(view.Added, newPhotoView(w.ID(), offset+i, p))
	}
	c.JSON(http.StatusOK, view)
}

// readPhotoFiles reads the "photos" parts. Files whose declared size is
// over the limit are passed on without their bytes so the wizard can
// report them.
func readPhotoFiles(c *gin.Context) ([]wizard.PhotoFile, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("%w: invalid multipart form: %v", errBadRequest, err)
	}
	defer c.Request.MultipartForm.RemoveAll() //nolint:errcheck // temp files

	headers := c.Request.MultipartForm.File["photos"]
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no photos in request", errBadRequest)
	}

	files := make([]wizard.PhotoFile, 0, len(headers))
	for _, fh := range headers {
		f := wizard.PhotoFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}
		if fh.Size <= wizard.MaxPhotoSize {
			data, err := readPart(fh)
			if err != nil {
				return nil, err
			}
			f.Data = data
		}
		files = append(files, f)
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, wizard.MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return data, nil
}

func photoIndex(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: photo index must be a number", errBadRequest)
	}
	return index, nil
}

func (s *Server) removePhoto(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	index, err := photoIndex(c)
	if err == nil {
		err = w.RemovePhoto(index)
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWizardView(w))
}

func (s *Server) previewPhoto(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	index, err := photoIndex(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	photos := w.Photos()
	if index < 0 || index >= len(photos) {
		s.writeError(c, fmt.Errorf("%w: %d (have %d)", wizard.ErrPhotoIndex, index, len(photos)))
		return
	}

	p := photos[index]
	rc, err := w.Previews().Open(p.Preview)
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, p.Size(), p.ContentType, rc, nil)
}

func (s *Server) submit(c *gin.Context) {
	w, ok := s.session(c)
	if !ok {
		return
	}
	created, err := w.Submit(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.sessions.Delete(w.ID())
	c.JSON(http.StatusCreated, created)
}
