// Package client pages through a running projects API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/ncobase/scanpage/paging"
	"github.com/ncobase/scanpage/project"
	"github.com/ncobase/scanpage/service"
)

// DefaultTimeout bounds one request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// ListOptions is the query string of one listing request.
type ListOptions struct {
	Mode      string `url:"list_mode,omitempty"`
	PageToken string `url:"page_token,omitempty"`
	Limit     int    `url:"limit,omitempty"`
}

// Page is one decoded listing page.
type Page struct {
	Mode          string             `json:"list_mode"`
	Items         []*project.Project `json:"items"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}

// Modes is the body of GET /projects/modes.
type Modes struct {
	Modes  []service.ModeInfo `json:"modes"`
	Limits paging.Limits      `json:"limits"`
}

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("scanpage: %d (code %d): %s", e.Status, e.Code, e.Message)
}

// Client talks to one server.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at base, e.g. http://127.0.0.1:8080.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches one page.
func (c *Client) List(ctx context.Context, opts *ListOptions) (*Page, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, err
	}
	u := c.base + "/projects"
	if q := v.Encode(); q != "" {
		u += "?" + q
	}
	var page Page
	if err := c.get(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// All walks every page starting from opts, calling fn once per page, and
// stops at the first page without a continuation token or when fn fails.
func (c *Client) All(ctx context.Context, opts *ListOptions, fn func(*Page) error) error {
	next := ListOptions{}
	if opts != nil {
		next = *opts
	}
	for {
		page, err := c.List(ctx, &next)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if page.NextPageToken == "" {
			return nil
		}
		next = ListOptions{PageToken: page.NextPageToken, Limit: next.Limit}
	}
}

// Modes fetches the declared scan modes and page size bounds.
func (c *Client) Modes(ctx context.Context) (*Modes, error) {
	var m Modes
	if err := c.get(ctx, c.base+"/projects/modes", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		e := &Error{Status: res.StatusCode}
		if json.Unmarshal(body, e) != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(body))
		}
		return e
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
