package neynar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/farfully/farfully/core"
)

// DefaultGatewayURL is where a locally running Farcaster gateway listens.
const DefaultGatewayURL = "http://localhost:3333"

// GatewaySource fetches profiles through a local intermediary service,
// sidestepping rate limits and cross-origin restrictions. First source in
// the default chain.
type GatewaySource struct {
	base *url.URL
	http *http.Client
}

var _ core.ProfileSource = (*GatewaySource)(nil)

func NewGatewaySource(baseURL string) (*GatewaySource, error) {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	return &GatewaySource{
		base: base,
		http: &http.Client{Timeout: requestTimeout},
	}, nil
}

func (s *GatewaySource) Name() string { return "gateway" }

func (s *GatewaySource) Fetch(ctx context.Context, fid int64) (*core.RichProfile, error) {
	u := s.base.JoinPath("api/v2/farcaster/user")
	values := url.Values{}
	values.Set("fid", strconv.FormatInt(fid, 10))
	values.Set("viewer_fid", strconv.FormatInt(fid, 10))
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")

	return fetchProfile(s.http, req)
}

// RelaySource fetches profiles through the farfully relay service, which
// holds the Neynar key server-side. Second source in the default chain.
type RelaySource struct {
	base *url.URL
	http *http.Client
}

var _ core.ProfileSource = (*RelaySource)(nil)

func NewRelaySource(baseURL string) (*RelaySource, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("relay url is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse relay url: %w", err)
	}
	return &RelaySource{
		base: base,
		http: &http.Client{Timeout: requestTimeout},
	}, nil
}

func (s *RelaySource) Name() string { return "relay" }

func (s *RelaySource) Fetch(ctx context.Context, fid int64) (*core.RichProfile, error) {
	u := s.base.JoinPath("api/neynar/profile")
	values := url.Values{}
	values.Set("fid", strconv.FormatInt(fid, 10))
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return fetchProfile(s.http, req)
}

// DirectSource adapts Client to the profile source port. Last source in the
// default chain; it needs a locally held API key.
type DirectSource struct {
	client *Client
}

var _ core.ProfileSource = (*DirectSource)(nil)

func NewDirectSource(client *Client) *DirectSource {
	return &DirectSource{client: client}
}

func (s *DirectSource) Name() string { return "neynar" }

func (s *DirectSource) Fetch(ctx context.Context, fid int64) (*core.RichProfile, error) {
	return s.client.User(ctx, fid)
}

// DefaultChain builds the standard fallback order: local gateway, relay
// service, then Neynar directly. The relay is skipped when no URL is
// configured; sources that cannot serve at runtime (gateway not running,
// missing key) fail per-attempt and the resolver moves on.
func DefaultChain(gatewayURL, relayURL, apiKey string) ([]core.ProfileSource, error) {
	gateway, err := NewGatewaySource(gatewayURL)
	if err != nil {
		return nil, err
	}
	sources := []core.ProfileSource{gateway}

	if relayURL != "" {
		relay, err := NewRelaySource(relayURL)
		if err != nil {
			return nil, err
		}
		sources = append(sources, relay)
	}

	client, err := NewClient("", apiKey)
	if err != nil {
		return nil, err
	}
	return append(sources, NewDirectSource(client)), nil
}
