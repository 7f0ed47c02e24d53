package creator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/store"
)

// Client talks to a remote rentwise server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out LoginResponse
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Create implements wizard.Creator by posting a multipart form with a
// "draft" JSON part and one "photos" part per photo.
func (c *Client) Create(ctx context.Context, draft property.Draft, photos []property.Photo) (*property.Created, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="draft"`)
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(draftJSON); err != nil {
		return nil, err
	}

	for _, p := range photos {
		ph := make(textproto.MIMEHeader)
		ph.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename=%q`, p.Name))
		ph.Set("Content-Type", p.ContentType)
		part, err := mw.CreatePart(ph)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(p.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/properties", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var created property.Created
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListProperties fetches one page of properties.
func (c *Client) ListProperties(ctx context.Context, f store.Filter) (*store.Page, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}

	u := c.baseURL + "/api/properties"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	var page store.Page
	if err := c.do(req, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// errorBody is the error shape returned by the server.
type errorBody struct {
	Error  string                `json:"error"`
	Errors []property.FieldError `json:"errors"`
}

func (c *Client) do(req *http.Request, want int, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == want {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity && len(eb.Errors) > 0:
		return &property.ValidationErrors{Errors: eb.Errors}
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.Join(ErrUnauthorized, &StatusError{StatusCode: resp.StatusCode, Message: eb.Error})
	}

	msg := eb.Error
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
