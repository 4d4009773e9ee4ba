package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"goldcatalog/internal/model"
)

// GramsPerTroyOunce converts the upstream per-ounce quote to per-gram.
const GramsPerTroyOunce = 31.1035

const DefaultURL = "https://api.metalpriceapi.com/v1/latest"

// ConfigError means the feed cannot be queried at all. Not retryable.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing %s", e.Missing)
}

// UpstreamError is any failure talking to the feed, including a response
// that reports success=false.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("metal price api returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("metal price api: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// latestResponse is the MetalPriceAPI /latest envelope with base=USD.
// rates.XAU is troy ounces of gold per USD.
type latestResponse struct {
	Success   bool               `json:"success"`
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
	Error     *struct {
		Code int    `json:"statusCode"`
		Info string `json:"message"`
	} `json:"error"`
}

// Fetcher is anything that can produce a fresh quote.
type Fetcher interface {
	Fetch(ctx context.Context) (model.Quote, error)
}

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	// No client timeout: callers bound the call through ctx.
	return &Client{APIKey: apiKey, BaseURL: baseURL, HTTP: &http.Client{}}
}

// Fetch makes exactly one request to the feed.
func (c *Client) Fetch(ctx context.Context) (model.Quote, error) {
	if c.APIKey == "" {
		return model.Quote{}, &ConfigError{Missing: "METAL_PRICE_API_KEY"}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return model.Quote{}, &ConfigError{Missing: "valid METAL_PRICE_API_URL"}
	}
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("base", "USD")
	q.Set("currencies", "XAU")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Quote{}, &UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.Quote{}, &UpstreamError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Quote{}, &UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to fetch metal price")}
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Quote{}, &UpstreamError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if !body.Success {
		msg := "unsuccessful response"
		if body.Error != nil && body.Error.Info != "" {
			msg = body.Error.Info
		}
		return model.Quote{}, &UpstreamError{Err: fmt.Errorf("%s", msg)}
	}

	ouncesPerUSD := body.Rates["XAU"]
	if ouncesPerUSD <= 0 {
		return model.Quote{}, &UpstreamError{Err: fmt.Errorf("missing or non-positive XAU rate")}
	}

	ts := time.Now().UTC()
	if body.Timestamp > 0 {
		ts = time.Unix(body.Timestamp, 0).UTC()
	}

	return model.Quote{
		PricePerGram: PerGram(1 / ouncesPerUSD),
		Timestamp:    ts,
	}, nil
}

// PerGram converts USD per troy ounce to USD per gram.
func PerGram(usdPerOunce float64) float64 {
	return usdPerOunce / GramsPerTroyOunce
}
