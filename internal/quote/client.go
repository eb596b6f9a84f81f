package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrPriceFetch marks any failure to obtain a price from the upstream quote
// source. Network errors, non-2xx responses, unparsable bodies and missing
// price fields all collapse into it; callers only classify, never inspect.
var ErrPriceFetch = errors.New("price fetch failed")

const defaultTimeout = 10 * time.Second

// Fetcher retrieves the current price for a stock symbol.
type Fetcher interface {
	FetchPrice(ctx context.Context, stock string) (float64, error)
}

// Client fetches quotes from the stock price proxy API
// (GET {baseURL}/v1/stock/{symbol}/quote).
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a quote client for the given base URL. A non-positive
// timeout falls back to 10s; the upstream has no SLA, so an unbounded
// request is never allowed.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// quoteBody is the subset of the proxy response this service reads.
// LatestPrice is a pointer so an absent field is distinguishable from 0.
type quoteBody struct {
	LatestPrice *float64 `json:"latestPrice"`
}

func fetchErr(stock string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrPriceFetch, stock, cause)
}

// FetchPrice issues one GET to the quote source and parses the latest price.
func (c *Client) FetchPrice(ctx context.Context, stock string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/stock/%s/quote", c.baseURL, url.PathEscape(stock))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fetchErr(stock, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fetchErr(stock, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fetchErr(stock, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fetchErr(stock, err)
	}

	var q quoteBody
	if err := json.Unmarshal(body, &q); err != nil {
		return 0, fetchErr(stock, err)
	}
	if q.LatestPrice == nil {
		return 0, fetchErr(stock, errors.New("response has no latestPrice field"))
	}
	return *q.LatestPrice, nil
}
