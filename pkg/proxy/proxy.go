package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/toolrunner"
)

// Endpoints names the upstream APIs the proxies relay to. Overridable so
// tests point at local fakes.
type Endpoints struct {
	YouTube   string
	Instagram string
	TikTok    string
	Facebook  string
	RemoveBg  string
}

// DefaultEndpoints returns the production upstream bases.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		YouTube:   "https://yt-resolver.fly.dev/api/resolve",
		Instagram: "https://igram-mirror.fly.dev/api/media",
		TikTok:    "https://tikwm-mirror.fly.dev/api/media",
		Facebook:  "https://fbdown-mirror.fly.dev/api/media",
		RemoveBg:  "https://api.remove.bg/v1.0/removebg",
	}
}

// Client relays single requests to external media and imaging APIs. No
// retries, no caching; one upstream call per inbound request.
type Client struct {
	http        *http.Client
	endpoints   Endpoints
	runner      *toolrunner.Runner
	downloader  toolrunner.Tool
	removeBgKey string
	logger      *logging.Logger
}

// NewClient wires the proxy client. runner and downloader back the
// platforms that shell out to an external downloader binary.
func NewClient(endpoints Endpoints, runner *toolrunner.Runner, downloader toolrunner.Tool, removeBgKey string, logger *logging.Logger) *Client {
	return &Client{
		http:        &http.Client{Timeout: 30 * time.Second},
		endpoints:   endpoints,
		runner:      runner,
		downloader:  downloader,
		removeBgKey: removeBgKey,
		logger:      logger,
	}
}

// ErrBadURL rejects media URLs that are not plain http(s), closing the
// door on scheme tricks and flag-shaped arguments reaching external tools.
var ErrBadURL = errors.New("invalid media url")

// ValidateMediaURL checks that raw is an absolute http(s) URL with a host.
func ValidateMediaURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrBadURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBadURL
	}
	return nil
}

// getJSON issues one GET and decodes the response body into out. Upstream
// failures are wrapped with their cause for server-side logs; callers
// collapse them into the endpoint's generic public message.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed upstream body: %w", err)
	}
	return nil
}
