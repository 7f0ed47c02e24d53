package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rentwise/internal/auth"
	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/store"
	"github.com/imamik/rentwise/internal/wizard"
)

const testPassword = "password123"

var testHash = sync.OnceValue(func() string {
	h, err := auth.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	return h
})

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t       *testing.T
	server  *Server
	repo    *store.Store
	photos  *creator.MemoryPhotoStore
	auth    *auth.Authenticator
	tokens  map[string]string
	handler http.Handler
}

type envOption func(*Deps)

func withCreator(c wizard.Creator) envOption {
	return func(d *Deps) { d.Creator = c }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	repo, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	authn := auth.NewAuthenticator(issuer, []auth.User{
		{ID: "u-alice", Username: "alice", PasswordHash: testHash(), Role: auth.RoleOwner},
		{ID: "u-bob", Username: "bob", PasswordHash: testHash(), Role: auth.RoleGuest},
	})

	photos := creator.NewMemoryPhotoStore("")
	deps := Deps{
		Creator:    creator.NewService(repo, photos),
		Properties: repo,
		Photos:     photos,
		Auth:       authn,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv := New(deps, Options{SessionTTL: time.Minute, MaxSessions: 10})
	t.Cleanup(srv.Sessions().Close)

	env := &testEnv{
		t:       t,
		server:  srv,
		repo:    repo,
		photos:  photos,
		auth:    authn,
		tokens:  map[string]string{},
		handler: srv.Handler(),
	}
	for _, user := range []string{"alice", "bob"} {
		token, _, err := authn.Login(user, testPassword)
		require.NoError(t, err)
		env.tokens[user] = token
	}
	return env
}

// request sends a request as user ("" for anonymous).
func (e *testEnv) request(user, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[user])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) json(user, method, path string, v interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		require.NoError(e.t, err)
		body = bytes.NewReader(data)
	}
	return e.request(user, method, path, body, "application/json")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type upload struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, files ...upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename=%q`, f.name))
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// basicInfo is a patch body that satisfies the first step.
var basicInfo = map[string]interface{}{
	"name":           "Harbor Loft",
	"type":           "apartment",
	"addressStreet":  "12 Pier St",
	"addressCity":    "Portland",
	"addressState":   "ME",
	"addressZip":     "04101",
	"addressCountry": "US",
	"bedrooms":       1,
	"bathrooms":      1,
	"maxGuests":      2,
}

// openOnPhotos creates a session for user and walks it to the photos step.
func (e *testEnv) openOnPhotos(user string) string {
	e.t.Helper()
	rec := e.json(user, http.MethodPost, "/api/wizards", nil)
	require.Equal(e.t, http.StatusCreated, rec.Code)
	id := decode[wizardView](e.t, rec).ID

	rec = e.json(user, http.MethodPatch, "/api/wizards/"+id+"/draft", basicInfo)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	rec = e.json(user, http.MethodPatch, "/api/wizards/"+id+"/draft", map[string]interface{}{"baseRate": 180})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	for i := 0; i < 3; i++ {
		rec = e.json(user, http.MethodPost, "/api/wizards/"+id+"/next", nil)
		require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return id
}
