package lrclib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://lrclib.net"
	userAgent      = "lrcget v0.9.2 (https://github.com/MichelW6667/lrcget)"
	requestTimeout = 30 * time.Second
)

// Client talks to an LRCLIB-compatible instance. One instance is shared
// across the whole process so every call reuses the same connection pool.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given instance URL. An empty baseURL
// selects the public instance; a nil client gets a pooled default with a
// request timeout.
func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// SetRateLimit caps outgoing requests at perSecond. Zero or negative removes
// the cap.
func (c *Client) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Search queries the service for candidate entries. Field parameters and the
// free-text query combine according to params.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Candidate, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.Track != "" {
		q.Set("track_name", params.Track)
	}
	if params.Artist != "" {
		q.Set("artist_name", params.Artist)
	}
	if params.Album != "" {
		q.Set("album_name", params.Album)
	}

	var results []Candidate
	if err := c.doRequest(ctx, http.MethodGet, "/api/search?"+q.Encode(), nil, &results, nil); err != nil {
		return nil, err
	}

	return results, nil
}

// Get performs an exact signature lookup by title, artist, album and duration.
// Returns [ErrNotFound] when the service holds no entry for the signature.
func (c *Client) Get(ctx context.Context, title, artist, album string, duration float64) (*Candidate, error) {
	q := url.Values{}
	q.Set("track_name", title)
	q.Set("artist_name", artist)
	q.Set("album_name", album)
	q.Set("duration", strconv.FormatFloat(duration, 'f', -1, 64))

	var candidate Candidate
	if err := c.doRequest(ctx, http.MethodGet, "/api/get?"+q.Encode(), nil, &candidate, nil); err != nil {
		return nil, err
	}

	return &candidate, nil
}

// GetByID fetches a single entry by its remote identifier.
func (c *Client) GetByID(ctx context.Context, id int64) (*Candidate, error) {
	var candidate Candidate
	endpoint := fmt.Sprintf("/api/get/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &candidate, nil); err != nil {
		return nil, err
	}

	return &candidate, nil
}

// RequestChallenge asks the service for a fresh proof-of-work puzzle.
func (c *Client) RequestChallenge(ctx context.Context) (*Challenge, error) {
	var challenge Challenge
	if err := c.doRequest(ctx, http.MethodPost, "/api/request-challenge", nil, &challenge, nil); err != nil {
		return nil, err
	}

	return &challenge, nil
}

// Publish uploads lyrics for a track. The token must come from a freshly
// solved challenge; tokens are single-use.
func (c *Client) Publish(ctx context.Context, req PublishRequest, token string) error {
	headers := map[string]string{"X-Publish-Token": token}
	return c.doRequest(ctx, http.MethodPost, "/api/publish", req, nil, headers)
}

// Flag reports a bad entry to the service. Flagging is a write and needs the
// same token as publishing.
func (c *Client) Flag(ctx context.Context, trackID int64, reason, token string) error {
	headers := map[string]string{"X-Publish-Token": token}
	body := flagRequest{TrackID: trackID, Reason: reason}
	return c.doRequest(ctx, http.MethodPost, "/api/flag", body, nil, headers)
}

// doRequest performs one HTTP call: marshal the body if present, set headers,
// wait for the rate limiter, run the request and decode the response into
// result. Non-2xx statuses map to typed errors.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps a non-2xx response to a typed error, decoding the
// service's error body when it sends one.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest:
		if strings.Contains(apiErr.Name, "PublishToken") {
			return ErrUnauthorized
		}
	}

	return &ServerError{Code: resp.StatusCode, Name: apiErr.Name, Message: apiErr.Message}
}
