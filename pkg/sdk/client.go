package searchd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is the searchd SDK entry point. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	obs     *observer
}

// New creates a searchd Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("searchd: base URL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("searchd: invalid base URL: %w", err)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.apiKey,
		hc:      hc,
		obs:     obs,
	}, nil
}

// Search runs a paginated search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	params := url.Values{}
	params.Set("q", req.Query)
	for _, t := range req.EntityTypes {
		params.Add("type", t)
	}
	if req.Page > 0 {
		params.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.SortBy != "" {
		params.Set("sortBy", req.SortBy)
	}

	err = c.get(ctx, "/search", params, &res)
	return res, err
}

// QuickSearch runs the capped instant-search variant. The server returns at
// most its configured quick limit (8 by default), always relevance-ordered.
func (c *Client) QuickSearch(ctx context.Context, query string) (items []Item, err error) {
	start := time.Now()
	defer func() { c.obs.observe("quick_search", start, err) }()

	params := url.Values{}
	params.Set("q", query)

	var res quickSearchResult
	if err = c.get(ctx, "/search/quick", params, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// Health checks the health of the server's components.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	err = c.get(ctx, "/health", nil, &hs)
	// A degraded server answers 503 with a valid body; surface the body.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		return hs, nil
	}
	return hs, err
}

// get issues one GET request and decodes the JSON response into out.
// Non-2xx responses become *APIError.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("searchd: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("searchd: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp, out)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("searchd: decode %s response: %w", path, err)
	}
	return nil
}

// decodeAPIError builds an *APIError from an error response. The body is also
// decoded into out when possible, for endpoints that answer non-2xx with a
// payload (health).
func decodeAPIError(resp *http.Response, out any) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       "unknown",
		Message:    resp.Status,
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err == nil {
		var er errorResponse
		if json.Unmarshal(buf, &er) == nil && er.Code != "" {
			apiErr.Code = er.Code
			apiErr.Message = er.Message
		}
		if out != nil {
			_ = json.Unmarshal(buf, out)
		}
	}

	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}
