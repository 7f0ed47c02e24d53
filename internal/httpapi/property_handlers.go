package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/store"
	"github.com/imamik/rentwise/internal/wizard"
)

// createProperty accepts a finished draft from a remote wizard: a "draft"
// JSON part and up to MaxPhotos "photos" parts.
func (s *Server) createProperty(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid multipart form: %v", errBadRequest, err))
		return
	}
	defer c.Request.MultipartForm.RemoveAll() //nolint:errcheck // temp files

	raw := c.Request.FormValue("draft")
	if raw == "" {
		s.writeError(c, fmt.Errorf("%w: draft part is required", errBadRequest))
		return
	}
	draft := property.NewDraft()
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid draft JSON: %v", errBadRequest, err))
		return
	}

	headers := c.Request.MultipartForm.File["photos"]
	if len(headers) > wizard.MaxPhotos {
		s.writeError(c, &wizard.UploadError{Kind: wizard.TooManyPhotos, Size: int64(len(headers)), Limit: wizard.MaxPhotos})
		return
	}
	photos := make([]property.Photo, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > wizard.MaxPhotoSize {
			s.writeError(c, &wizard.UploadError{Kind: wizard.OversizeFile, File: fh.Filename, Size: fh.Size, Limit: wizard.MaxPhotoSize})
			return
		}
		data, err := readPart(fh)
		if err != nil {
			s.writeError(c, err)
			return
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			ct = http.DetectContentType(data)
		}
		photos = append(photos, property.Photo{
			Name:        fh.Filename,
			ContentType: ct,
			Data:        data,
		})
	}

	created, err := s.creator.Create(c.Request.Context(), draft, photos)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) listProperties(c *gin.Context) {
	status, err := store.ParseStatus(c.Query("status"))
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	filter := store.Filter{Query: strings.TrimSpace(c.Query("q")), Status: status}
	if filter.Page, err = queryInt(c, "page"); err == nil {
		filter.PageSize, err = queryInt(c, "pageSize")
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	page, err := s.properties.ListProperties(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive number", errBadRequest, key)
	}
	return n, nil
}

func (s *Server) getProperty(c *gin.Context) {
	rec, err := s.properties.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) setStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: status is required", errBadRequest))
		return
	}
	status, err := store.ParseStatus(req.Status)
	if err == nil && status == "" {
		err = fmt.Errorf("status %q cannot be assigned", req.Status)
	}
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	id := c.Param("id")
	if err := s.properties.SetStatus(c.Request.Context(), id, status); err != nil {
		s.writeError(c, err)
		return
	}
	rec, err := s.properties.GetProperty(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// getPhoto serves stored photo bytes for backends that have no public
// URL of their own.
func (s *Server) getPhoto(c *gin.Context) {
	key := strings.TrimPrefix(path.Clean(c.Param("key")), "/")
	if key == "" || key == "." {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	data, err := s.photos.Get(c.Request.Context(), key)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
