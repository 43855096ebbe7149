// Package images looks up stock photography for catalog entries via the
// Unsplash search API.
package images

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.unsplash.com"

// Client searches for photo URLs matching a free-text query.
type Client interface {
	Search(ctx context.Context, query string, count int) ([]string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	accessKey string
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates an Unsplash search client.
func NewClient(accessKey string, opts ...Option) Client {
	c := &httpClient{
		accessKey: accessKey,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns up to count landscape photo URLs for the query. An empty
// result set is not an error.
func (c *httpClient) Search(ctx context.Context, query string, count int) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "images: rate limiter wait")
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(count))
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "images: create request")
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "images: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "images: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("images: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "images: unmarshal response")
	}

	urls := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		if r.URLs.Regular != "" {
			urls = append(urls, r.URLs.Regular)
		}
	}
	return urls, nil
}
