package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	now := time.Unix(1712000000, 0)

	t.Run("valid", func(t *testing.T) {
		header := SignPayload(payload, secret, now)
		assert.NoError(t, verifySignature(payload, header, secret, now))
	})

	t.Run("valid within tolerance", func(t *testing.T) {
		header := SignPayload(payload, secret, now)
		assert.NoError(t, verifySignature(payload, header, secret, now.Add(4*time.Minute)))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		header := SignPayload(payload, secret, now)
		assert.Error(t, verifySignature(payload, header, secret, now.Add(6*time.Minute)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := SignPayload(payload, "whsec_other", now)
		assert.Error(t, verifySignature(payload, header, secret, now))
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := SignPayload(payload, secret, now)
		assert.Error(t, verifySignature([]byte(`{"type":"evil"}`), header, secret, now))
	})

	t.Run("empty header", func(t *testing.T) {
		assert.Error(t, verifySignature(payload, "", secret, now))
	})

	t.Run("header without signature", func(t *testing.T) {
		assert.Error(t, verifySignature(payload, "t=1712000000", secret, now))
	})

	t.Run("extra unknown parts tolerated", func(t *testing.T) {
		header := SignPayload(payload, secret, now) + ",v0=deadbeef"
		assert.NoError(t, verifySignature(payload, header, secret, now))
	})
}

func TestClient_CreateIntent(t *testing.T) {
	logger, _ := zap.NewProduction()

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "12200", r.PostForm.Get("amount"))
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, "ORD-123", r.PostForm.Get("metadata[order_number]"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret"}`))
		}))
		defer server.Close()

		client, err := NewClient(&config.Stripe{
			APIKey:  "sk_test",
			BaseURL: server.URL,
			Timeout: time.Second,
		}, logger)
		require.NoError(t, err)

		intent, err := client.CreateIntent(context.Background(), 12200, "usd",
			"Payment for Order #ORD-123", map[string]string{"order_number": "ORD-123"})
		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.ID)
		assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	})

	t.Run("api error surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
		}))
		defer server.Close()

		client, err := NewClient(&config.Stripe{
			APIKey:  "sk_test",
			BaseURL: server.URL,
			Timeout: time.Second,
		}, logger)
		require.NoError(t, err)

		_, err = client.CreateIntent(context.Background(), 100, "usd", "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Your card was declined.")
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := NewClient(&config.Stripe{}, logger)
		assert.Error(t, err)
	})
}
