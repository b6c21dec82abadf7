package omeka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the per_page value used for collection listings
	DefaultPageSize = 100

	// maxErrorBody caps how much of a failed response body is kept
	maxErrorBody = 4096

	redacted = "REDACTED"
)

// Credentials holds the Omeka S API key pair
type Credentials struct {
	Identity   string
	Credential string
}

// Params returns the key pair as query parameters. Empty values are left
// out, which makes the request anonymous.
func (c Credentials) Params() url.Values {
	params := url.Values{}
	if c.Identity != "" {
		params.Set("key_identity", c.Identity)
	}
	if c.Credential != "" {
		params.Set("key_credential", c.Credential)
	}
	return params
}

// Client represents an Omeka S REST API client
type Client struct {
	baseURL     *url.URL
	credentials Credentials
	httpClient  *http.Client
	limiter     *rate.Limiter
	pageSize    int
	vocabulary  Vocabulary
	logger      zerolog.Logger
}

// NewClient creates a new Omeka S client
func NewClient(baseURL string, credentials Credentials, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: API URL is required", ErrInvalidConfig)
	}

	// Relative endpoints resolve below the base only with a trailing slash
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid API URL: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: API URL must be absolute: %s", ErrInvalidConfig, baseURL)
	}

	client := &Client{
		baseURL:     parsed,
		credentials: credentials,
		httpClient:  &http.Client{},
		limiter:     rate.NewLimiter(rate.Inf, 0),
		pageSize:    DefaultPageSize,
		vocabulary:  DefaultVocabulary(),
		logger:      logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// HTTPClient returns the underlying HTTP client
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// endpoint resolves a path relative to the API base URL
func (c *Client) endpoint(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	return c.baseURL.ResolveReference(ref).String()
}

// send performs an HTTP request. On success the caller owns the response
// body; any transport failure or non-2xx status yields a *RequestError.
func (c *Client) send(ctx context.Context, method, rawURL string, params url.Values, body io.Reader, header http.Header) (*http.Response, error) {
	target, err := withParams(rawURL, params)
	if err != nil {
		return nil, &RequestError{Method: method, URL: rawURL, Err: err}
	}
	safeURL := redactURL(target)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RequestError{Method: method, URL: safeURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &RequestError{Method: method, URL: safeURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", safeURL).
		Msg("Making Omeka API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = safeURL
		}
		reqErr := &RequestError{Method: method, URL: safeURL, Err: err}
		c.logger.Debug().Err(reqErr).Msg("Omeka request failed")
		return nil, reqErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		reqErr := &RequestError{
			Method:     method,
			URL:        safeURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
		c.logger.Debug().Err(reqErr).Msg("Omeka request failed")
		return nil, reqErr
	}

	return resp, nil
}

// getJSON performs a GET request and decodes the JSON body into v
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, v any) (http.Header, error) {
	resp, err := c.send(ctx, http.MethodGet, rawURL, params, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return nil, fmt.Errorf("failed to parse response from %s: %w", redactRawURL(rawURL), err)
	}

	return resp.Header, nil
}

// putJSON sends payload as the JSON body of a PUT request
func (c *Client) putJSON(ctx context.Context, rawURL string, params url.Values, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := c.send(ctx, http.MethodPut, rawURL, params, bytes.NewReader(data), header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// TestConnection verifies the API is reachable with the configured keys
func (c *Client) TestConnection(ctx context.Context) error {
	params := c.credentials.Params()
	params.Set("per_page", "1")

	var items []Resource
	if _, err := c.getJSON(ctx, c.endpoint("items"), params, &items); err != nil {
		return fmt.Errorf("failed to connect to Omeka: %w", err)
	}

	c.logger.Debug().Msg("Successfully connected to Omeka")
	return nil
}

// GetItem fetches a single item
func (c *Client) GetItem(ctx context.Context, itemID int) (Resource, error) {
	var item Resource
	if _, err := c.getJSON(ctx, c.itemURL(itemID), c.credentials.Params(), &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) itemURL(itemID int) string {
	return c.endpoint("items/" + strconv.Itoa(itemID))
}

// withParams merges params into the query of rawURL
func withParams(rawURL string, params url.Values) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return u, nil
	}

	query := u.Query()
	for key, values := range params {
		query.Del(key)
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()
	return u, nil
}

// redactURL renders u with the API credential hidden
func redactURL(u *url.URL) string {
	query := u.Query()
	if !query.Has("key_credential") {
		return u.String()
	}
	query.Set("key_credential", redacted)
	clone := *u
	clone.RawQuery = query.Encode()
	return clone.String()
}

func redactRawURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return redactURL(u)
}
