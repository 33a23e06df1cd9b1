package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/receiptlens/backend/internal/domain"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

// Client handles communication with the OpenFoodFacts product API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a new OpenFoodFacts API client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// OpenFoodFacts asks clients to stay under 100 product queries/minute
	limiter := rate.NewLimiter(rate.Limit(1.5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// LookupBarcode fetches the product record for an EAN/UPC barcode.
// Returns ErrProductNotFound when the catalog has no entry for it.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[CATALOG] request error for %s (attempt %d): %v", barcode, attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[CATALOG] API error for %s (attempt %d) - status: %d", barcode, attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var productResp productResponse
		if err := json.Unmarshal(body, &productResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		// OpenFoodFacts returns status=1 when the product was found
		if productResp.Status != 1 || productResp.Product == nil {
			return nil, domain.ErrProductNotFound
		}

		return mapToProductRecord(barcode, productResp.Product), nil
	}

	log.Printf("[CATALOG] all retries failed for barcode %s", barcode)
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ReceiptLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return resp, nil
}
