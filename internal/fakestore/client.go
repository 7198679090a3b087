package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// Product mirrors the FakeStore API response shape. Fields are passed
// through to the templates untouched.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

var (
	// ErrNotFound is returned when the upstream has no product for the given ID.
	ErrNotFound = errors.New("fakestore: product not found")
	// ErrUnavailable is returned for network errors, upstream 5xx responses
	// and an open circuit breaker.
	ErrUnavailable = errors.New("fakestore: upstream unavailable")
	// ErrBadPayload is returned when the upstream body is not the expected JSON.
	ErrBadPayload = errors.New("fakestore: malformed upstream payload")
)

// Client talks to the FakeStore REST API. All calls share one circuit
// breaker; once it trips, calls fail fast with ErrUnavailable until the
// upstream recovers.
type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a Client for the given base URL. Pass an *http.Client with a
// Timeout set to bound each request; nil falls back to http.DefaultClient.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}

	var st gobreaker.Settings
	st.Name = "fakestore"
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	// a 404 is a valid upstream answer, not an outage
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrNotFound)
	}

	return &Client{
		baseURL: baseURL,
		httpc:   httpc,
		breaker: gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

// Products fetches the full, unfiltered catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single product by its upstream ID.
func (c *Client) Product(ctx context.Context, id int) (Product, error) {
	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return Product{}, err
	}
	// FakeStore answers 200 with an empty body for unknown IDs.
	if product.ID == 0 {
		return Product{}, ErrNotFound
	}
	return product, nil
}

// Categories fetches the list of category labels.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ProductsByCategory fetches the catalog subset for one category, in
// upstream order.
func (c *Client) ProductsByCategory(ctx context.Context, name string) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(name), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, path)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn().Str("path", path).Msg("circuit breaker open, skipping upstream call")
			return ErrUnavailable
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		log.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("unexpected upstream status")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}
