package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestNormalizeAndValidateConfig(t *testing.T) {
	cfg := NormalizeConfig(Config{SecretKey: " sk_test_123 ", WebhookSecret: " whsec_123 "})
	if cfg.SecretKey != "sk_test_123" {
		t.Fatalf("unexpected secret key: %s", cfg.SecretKey)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected default api base url: %s", cfg.APIBaseURL)
	}
	if cfg.WebhookToleranceSeconds != defaultWebhookToleranceS {
		t.Fatalf("unexpected default tolerance: %d", cfg.WebhookToleranceSeconds)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate config failed: %v", err)
	}
}

func TestCreateTransferSuccess(t *testing.T) {
	var gotForm map[string]string
	var gotIdempotency string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transfers" || r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = r.ParseForm()
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		gotIdempotency = r.Header.Get("Idempotency-Key")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "tr_123", "object": "transfer"})
	}))
	defer server.Close()

	cfg := NormalizeConfig(Config{SecretKey: "sk_test", APIBaseURL: server.URL})
	result, err := CreateTransfer(context.Background(), cfg, TransferInput{
		Reference:   "01HZXREF",
		Amount:      4200,
		Currency:    "USD",
		Destination: "acct_1ABC",
	})
	if err != nil {
		t.Fatalf("create transfer failed: %v", err)
	}
	if result.TransferID != "tr_123" {
		t.Fatalf("unexpected transfer id: %s", result.TransferID)
	}
	if gotIdempotency == "" || gotIdempotency != result.IdempotencyKey {
		t.Fatalf("idempotency key mismatch: header=%s result=%s", gotIdempotency, result.IdempotencyKey)
	}
	if gotForm["amount"] != "4200" || gotForm["currency"] != "usd" || gotForm["destination"] != "acct_1ABC" {
		t.Fatalf("unexpected form: %+v", gotForm)
	}
	if gotForm["metadata[payout_reference]"] != "01HZXREF" {
		t.Fatalf("payout reference not sent: %+v", gotForm)
	}
}

func TestCreateTransferAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"type":    "invalid_request_error",
				"code":    "balance_insufficient",
				"message": "Insufficient funds in Stripe account.",
			},
		})
	}))
	defer server.Close()

	cfg := NormalizeConfig(Config{SecretKey: "sk_test", APIBaseURL: server.URL})
	_, err := CreateTransfer(context.Background(), cfg, TransferInput{Reference: "01HZXREF", Amount: 100, Currency: "usd", Destination: "acct_1ABC"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "balance_insufficient" {
		t.Fatalf("expected balance_insufficient APIError, got %v", err)
	}
}

func TestCreateTransferReusesIdempotencyKeyForReference(t *testing.T) {
	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "tr_123", "object": "transfer"})
	}))
	defer server.Close()

	cfg := NormalizeConfig(Config{SecretKey: "sk_test", APIBaseURL: server.URL})
	for _, ref := range []string{"01PAYOUTREF", " 01PAYOUTREF ", "01OTHERREF"} {
		if _, err := CreateTransfer(context.Background(), cfg, TransferInput{Reference: ref, Amount: 100, Currency: "usd", Destination: "acct_1ABC"}); err != nil {
			t.Fatalf("create transfer failed: %v", err)
		}
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(keys))
	}
	if keys[0] == "" || keys[0] != keys[1] {
		t.Fatalf("same reference must reuse the idempotency key: %v", keys)
	}
	if keys[0] == keys[2] {
		t.Fatalf("different references must not share a key: %v", keys)
	}
	if keys[0] != TransferIdempotencyKey("01PAYOUTREF") {
		t.Fatalf("unexpected key %s", keys[0])
	}

	_, err := CreateTransfer(context.Background(), cfg, TransferInput{Amount: 100, Currency: "usd", Destination: "acct_1ABC"})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid without reference, got %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("request without reference must not reach stripe")
	}
}

func TestCreateTransferRejectsNonAccountDestination(t *testing.T) {
	cfg := NormalizeConfig(Config{SecretKey: "sk_test"})
	_, err := CreateTransfer(context.Background(), cfg, TransferInput{Amount: 100, Currency: "usd", Destination: "someone@example.com"})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func signedWebhook(t *testing.T, secret string, ts int64, payload map[string]interface{}) ([]byte, map[string]string) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	sig := computeSignature(secret, ts, body)
	return body, map[string]string{"stripe-signature": "t=" + strconv.FormatInt(ts, 10) + ",v1=" + sig}
}

func TestVerifyAndParseWebhookInvoicePaid(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := NormalizeConfig(Config{WebhookSecret: "whsec_test_abc"})
	body, headers := signedWebhook(t, cfg.WebhookSecret, now.Unix(), map[string]interface{}{
		"id":      "evt_1",
		"type":    "invoice.paid",
		"created": now.Unix(),
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "in_123",
				"payment_intent": "pi_123",
				"amount_paid":    2500,
				"currency":       "usd",
				"metadata":       map[string]interface{}{"user_id": "42"},
			},
		},
	})

	event, err := VerifyAndParseWebhook(cfg, headers, body, now)
	if err != nil {
		t.Fatalf("verify webhook failed: %v", err)
	}
	if event.EventType != "invoice.paid" || event.UserID != 42 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Reference != "pi_123" || event.Amount != 2500 || event.Currency != "USD" {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.OccurredAt == nil || !event.OccurredAt.Equal(now) {
		t.Fatalf("unexpected occurred at: %v", event.OccurredAt)
	}
}

func TestVerifyAndParseWebhookRejectsBadSignature(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := NormalizeConfig(Config{WebhookSecret: "whsec_test_abc"})
	body, _ := signedWebhook(t, cfg.WebhookSecret, now.Unix(), map[string]interface{}{"id": "evt_1", "type": "invoice.paid"})

	tests := []struct {
		name    string
		headers map[string]string
		now     time.Time
	}{
		{name: "missing header", headers: map[string]string{}, now: now},
		{name: "wrong signature", headers: map[string]string{"Stripe-Signature": "t=1760000000,v1=deadbeef"}, now: now},
		{name: "stale timestamp", headers: map[string]string{"Stripe-Signature": "t=1760000000,v1=" + computeSignature(cfg.WebhookSecret, now.Unix(), body)}, now: now.Add(10 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyAndParseWebhook(cfg, tt.headers, body, tt.now); !errors.Is(err, ErrSignatureInvalid) {
				t.Fatalf("expected ErrSignatureInvalid, got %v", err)
			}
		})
	}
}

func TestVerifyAndParseWebhookPrefersMetadataReference(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := NormalizeConfig(Config{WebhookSecret: "whsec_test_abc"})
	body, headers := signedWebhook(t, cfg.WebhookSecret, now.Unix(), map[string]interface{}{
		"id":   "evt_2",
		"type": "charge.refunded",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":              "ch_1",
				"payment_intent":  "pi_9",
				"amount_refunded": 500,
				"metadata":        map[string]interface{}{"user_id": "7", "reference": "ORDER-7"},
			},
		},
	})
	event, err := VerifyAndParseWebhook(cfg, headers, body, now)
	if err != nil {
		t.Fatalf("verify webhook failed: %v", err)
	}
	if event.Reference != "ORDER-7" || event.Amount != 500 || event.UserID != 7 {
		t.Fatalf("unexpected refund event: %+v", event)
	}
}
