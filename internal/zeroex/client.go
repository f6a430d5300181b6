// Package zeroex is a client for the 0x swap API (v2, Permit2 endpoints).
package zeroex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Mohsinsiddi/coinx/internal/cache"
)

const (
	pricePath = "/swap/permit2/price"
	quotePath = "/swap/permit2/quote"

	apiVersion = "v2"
)

var (
	// ErrNotJSON is returned when the API answers with a non-JSON body,
	// typically an HTML error page from a gateway.
	ErrNotJSON = errors.New("swap API returned a non-JSON response")
	// ErrNoLiquidity is returned when the API reports no route for the pair.
	ErrNoLiquidity = errors.New("no liquidity available for this pair")
	// ErrNoAPIKey is returned before any request when the key is empty.
	ErrNoAPIKey = errors.New("0x API key not set (config set zeroex_api_key <key> or ZEROEX_API_KEY)")
)

// APIError is a non-2xx answer from the API that carried no validation errors.
type APIError struct {
	Status  int
	Name    string
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Name != "" && e.Message != "":
		return fmt.Sprintf("swap API %d %s: %s", e.Status, e.Name, e.Message)
	case e.Message != "":
		return fmt.Sprintf("swap API %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("swap API returned HTTP %d", e.Status)
	}
}

// Client talks to the 0x API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 15s-timeout client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithCache caches price responses for ttl.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = cc, ttl }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for baseURL (e.g. https://api.0x.org).
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   cache.Nop{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Price fetches an indicative price. When the API rejects the parameters
// the returned Price has ValidationErrors set and err is nil.
func (c *Client) Price(ctx context.Context, p Params) (*Price, error) {
	query := p.Values().Encode()
	key := cache.Key("price", query)

	if body, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		c.log.Debug("price cache hit", slog.String("key", key))
		var out Price
		if err := decode(body, &out); err == nil {
			out.Raw = rawCopy(body)
			return &out, nil
		}
	}

	var out Price
	body, err := c.get(ctx, pricePath, query, &out, &out.ValidationErrors)
	if err != nil {
		return nil, err
	}
	out.Raw = rawCopy(body)
	if len(out.ValidationErrors) == 0 {
		if !out.LiquidityAvailable && out.BuyAmount == "" {
			return nil, ErrNoLiquidity
		}
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			c.log.Warn("price cache write failed", slog.Any("err", err))
		}
	}
	return &out, nil
}

// Quote fetches a firm quote. Quotes are never cached.
func (c *Client) Quote(ctx context.Context, p Params) (*Quote, error) {
	var out Quote
	body, err := c.get(ctx, quotePath, p.Values().Encode(), &out, &out.ValidationErrors)
	if err != nil {
		return nil, err
	}
	out.Raw = rawCopy(body)
	if len(out.ValidationErrors) == 0 && !out.LiquidityAvailable && out.Transaction.Data == "" {
		return nil, ErrNoLiquidity
	}
	return &out, nil
}

// get performs the request and decodes the body into out. A 4xx carrying
// validation errors fills verrs instead of failing. Either way the body is
// returned as received.
func (c *Client) get(ctx context.Context, path, query string, out any, verrs *[]ValidationError) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("0x-api-key", c.apiKey)
	req.Header.Set("0x-version", apiVersion)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("swap API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading swap API response: %w", err)
	}
	c.log.Debug("swap API",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w (HTTP %d, %s)", ErrNotJSON, resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e, ve := parseError(resp.StatusCode, body)
		if len(ve) > 0 && resp.StatusCode < 500 {
			*verrs = ve
			return body, nil
		}
		return nil, e
	}

	if err := decode(body, out); err != nil {
		return nil, err
	}
	return body, nil
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding swap API response: %w", err)
	}
	return nil
}

func rawCopy(body []byte) json.RawMessage {
	return append(json.RawMessage(nil), body...)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// errorBody covers both error shapes the API has used: the v1
// {reason, validationErrors:[...]} and the v2 {name, message, data:{details:[...]}}.
type errorBody struct {
	Name             string            `json:"name"`
	Message          string            `json:"message"`
	Reason           string            `json:"reason"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	Data             struct {
		Details []ValidationError `json:"details"`
	} `json:"data"`
}

func parseError(status int, body []byte) (*APIError, []ValidationError) {
	e := &APIError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return e, nil
	}
	e.Name = eb.Name
	e.Message = eb.Message
	if e.Message == "" {
		e.Message = eb.Reason
	}
	ve := eb.ValidationErrors
	if len(ve) == 0 {
		ve = eb.Data.Details
	}
	return e, ve
}
