// Package neynar implements the profile data sources backed by the Neynar
// social-graph API: a local gateway, the farfully relay route and the Neynar
// API itself. All three speak the same JSON user payloads and the package
// normalizes both known envelope shapes to one record.
package neynar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/farfully/farfully/core"
)

const (
	// DefaultBaseURL is the public Neynar API root.
	DefaultBaseURL = "https://api.neynar.com/v2/farcaster"

	defaultUserAgent = "farfully/0.1"
	requestTimeout   = 5 * time.Second
)

var ErrMissingAPIKey = errors.New("neynar api key is not configured")

// Client talks to the Neynar HTTP API directly with a locally held key.
// The relay service wraps it server-side; browser-less clients can use it
// as the last source in the fallback chain.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
}

// NewClient builds a Client for the given API root. An empty baseURL selects
// the public API. An empty apiKey is allowed at construction; lookups then
// fail with ErrMissingAPIKey, which the resolver treats as one more source
// failure.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
	}, nil
}

// User fetches a user by fid via the bulk endpoint.
func (c *Client) User(ctx context.Context, fid int64) (*core.RichProfile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	u := c.baseURL.JoinPath("user/bulk")
	values := url.Values{}
	values.Set("fids", strconv.FormatInt(fid, 10))
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("x-api-key", c.apiKey)

	return fetchProfile(c.http, req)
}

// fetchProfile executes the request and decodes a user payload in either
// envelope shape.
func fetchProfile(client *http.Client, req *http.Request) (*core.RichProfile, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain a little of the body for context; these errors end up in the
		// resolver's per-source failure list.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}

	return decodeUser(resp.Body)
}

func decodeUser(r io.Reader) (*core.RichProfile, error) {
	var envelope userEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	user, err := envelope.first()
	if err != nil {
		return nil, err
	}
	return user.toProfile()
}
