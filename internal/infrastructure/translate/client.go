package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/receiptlens/backend/internal/domain"
)

const defaultBaseURL = "https://translate.googleapis.com"

// Client performs best-effort translations via the public Google
// translate web endpoint. One attempt per call, short fixed timeout,
// no retries: callers treat any error as a passthrough of the
// original text.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a translate client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// The unauthenticated endpoint tolerates only modest request rates
	limiter := rate.NewLimiter(rate.Limit(5), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// Translate translates text from sourceLocale to destLocale in a single attempt
func (c *Client) Translate(ctx context.Context, text, sourceLocale, destLocale string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("client", "gtx")
	params.Add("sl", sourceLocale)
	params.Add("tl", destLocale)
	params.Add("dt", "t")
	params.Add("q", text)

	reqURL := fmt.Sprintf("%s/translate_a/single?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ReceiptLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrTranslateUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslateUnavailable, err)
	}

	translated, err := parseResponse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslateUnavailable, err)
	}

	return translated, nil
}

// parseResponse extracts the translated text from the endpoint's
// nested-array payload: [[["hola","hello",...],...],...]. Longer inputs
// come back split across several segments, which are concatenated.
func parseResponse(body []byte) (string, error) {
	var payload []interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("malformed payload: %v", err)
	}
	if len(payload) == 0 {
		return "", errors.New("empty payload")
	}

	segments, ok := payload[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected payload shape")
	}

	var b strings.Builder
	for _, segment := range segments {
		parts, ok := segment.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if text, ok := parts[0].(string); ok {
			b.WriteString(text)
		}
	}

	if b.Len() == 0 {
		return "", errors.New("no translation in payload")
	}
	return b.String(), nil
}
