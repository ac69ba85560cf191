package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/config"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"go.uber.org/zap"
)

// Client talks to the Stripe payment-intent API and verifies incoming
// webhook signatures. All request timing is bounded by the configured
// timeout; retry policy belongs to the caller.
type Client struct {
	logger        *zap.Logger
	baseURL       string
	apiKey        string
	webhookSecret string
	httpClient    *http.Client
}

func NewClient(cfg *config.Stripe, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("stripe api key is not configured")
	}
	return &Client{
		logger:        log,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateIntent(ctx context.Context, amountMinor int64, currency string,
	description string, metadata map[string]string) (*port.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("description", description)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	requestStr := c.baseURL + "/v1/payment_intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("Fire payment intent request",
		zap.Int64("amount", amountMinor), zap.String("currency", currency))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			c.logger.Error("payment intent request rejected",
				zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Error.Message))
			return nil, fmt.Errorf("provider rejected intent: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("bad response %v for request %s", resp.StatusCode, requestStr)
	}

	var result intentResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}

	return &port.PaymentIntent{
		ID:           result.ID,
		ClientSecret: result.ClientSecret,
	}, nil
}
