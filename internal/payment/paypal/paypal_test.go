package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeAndValidateConfig(t *testing.T) {
	cfg := NormalizeConfig(Config{
		ClientID:     " cid ",
		ClientSecret: " secret ",
		BaseURL:      "https://api-m.sandbox.paypal.com/",
	})
	if cfg.ClientID != "cid" {
		t.Fatalf("client id not normalized, got: %s", cfg.ClientID)
	}
	if cfg.BaseURL != "https://api-m.sandbox.paypal.com" {
		t.Fatalf("base url not normalized, got: %s", cfg.BaseURL)
	}
	if cfg.EmailSubject == "" {
		t.Fatalf("email subject should have default value")
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig should pass, got: %v", err)
	}
	if NormalizeConfig(Config{}).Configured() {
		t.Fatalf("empty config should not be configured")
	}
}

func newPaypalTestServer(t *testing.T, payoutStatus int, payoutBody map[string]interface{}, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "cid" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok_123"})
		case payoutsEndpoint:
			if r.Header.Get("Authorization") != "Bearer tok_123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if captured != nil {
				_ = json.NewDecoder(r.Body).Decode(captured)
			}
			w.WriteHeader(payoutStatus)
			_ = json.NewEncoder(w).Encode(payoutBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCreatePayoutSuccess(t *testing.T) {
	var captured map[string]interface{}
	server := newPaypalTestServer(t, http.StatusCreated, map[string]interface{}{
		"batch_header": map[string]interface{}{
			"payout_batch_id": "BATCH-1",
			"batch_status":    "pending",
		},
	}, &captured)
	defer server.Close()

	cfg := NormalizeConfig(Config{ClientID: "cid", ClientSecret: "secret", BaseURL: server.URL})
	result, err := CreatePayout(context.Background(), cfg, PayoutInput{
		Reference: "01HZXREF",
		Amount:    1250,
		Currency:  "usd",
		Receiver:  "affiliate@example.com",
	})
	if err != nil {
		t.Fatalf("create payout failed: %v", err)
	}
	if result.BatchID != "BATCH-1" || result.Status != "PENDING" {
		t.Fatalf("unexpected payout result: %+v", result)
	}
	if result.SenderBatchID != "01HZXREF" {
		t.Fatalf("sender batch id should be the payout reference, got %s", result.SenderBatchID)
	}
	if got := readString(captured, "sender_batch_header", "sender_batch_id"); got != "01HZXREF" {
		t.Fatalf("unexpected sender batch id sent: %s", got)
	}
	if got := readString(captured, "items", "0", "amount", "value"); got != "12.50" {
		t.Fatalf("unexpected amount sent: %s", got)
	}
	if got := readString(captured, "items", "0", "sender_item_id"); got != "01HZXREF" {
		t.Fatalf("unexpected sender item id: %s", got)
	}
}

func TestCreatePayoutProviderError(t *testing.T) {
	server := newPaypalTestServer(t, http.StatusUnprocessableEntity, map[string]interface{}{
		"name":    "INSUFFICIENT_FUNDS",
		"message": "Sender does not have sufficient funds.",
	}, nil)
	defer server.Close()

	cfg := NormalizeConfig(Config{ClientID: "cid", ClientSecret: "secret", BaseURL: server.URL})
	_, err := CreatePayout(context.Background(), cfg, PayoutInput{
		Reference: "01HZXREF",
		Amount:    100,
		Currency:  "USD",
		Receiver:  "affiliate@example.com",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Name != "INSUFFICIENT_FUNDS" || apiErr.Message == "" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("api error should unwrap to ErrRequestFailed")
	}
}

func TestCreatePayoutRequiresReference(t *testing.T) {
	cfg := NormalizeConfig(Config{ClientID: "cid", ClientSecret: "secret"})
	_, err := CreatePayout(context.Background(), cfg, PayoutInput{Amount: 100, Currency: "USD", Receiver: "affiliate@example.com"})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestCreatePayoutRejectsInvalidReceiver(t *testing.T) {
	cfg := NormalizeConfig(Config{ClientID: "cid", ClientSecret: "secret"})
	_, err := CreatePayout(context.Background(), cfg, PayoutInput{Amount: 100, Currency: "USD", Receiver: "not-an-email"})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}
