package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/queue"
)

const billingTestSecret = "whsec_billing_test"

func signBillingPayload(t *testing.T, body []byte, ts time.Time) map[string]string {
	t.Helper()
	timestamp := ts.Unix()
	mac := hmac.New(sha256.New, []byte(billingTestSecret))
	_, _ = mac.Write([]byte(strconv.FormatInt(timestamp, 10) + "." + string(body)))
	return map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil))),
	}
}

func newBillingTestService(t *testing.T, env *affiliateTestEnv, now time.Time) *BillingWebhookService {
	t.Helper()
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	svc := NewBillingWebhookService(config.StripePayoutConfig{WebhookSecret: billingTestSecret}, env.referrals, queueClient)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBillingWebhookInvoicePaidConvertsSynchronously(t *testing.T) {
	env := setupAffiliateServiceTest(t)
	owner := createAffiliateTestUser(t, env.db, "owner-billing@example.com")
	referred := createAffiliateTestUser(t, env.db, "referred-billing@example.com")
	affiliate := createAffiliateTestAccount(t, env.db, owner.ID, "BILL0001", 0.2, constants.AffiliateStatusActive)
	if _, err := env.referrals.TrackReferral("BILL0001", referred.ID, ""); err != nil {
		t.Fatalf("track referral failed: %v", err)
	}

	now := time.Now()
	svc := newBillingTestService(t, env, now)
	body := []byte(fmt.Sprintf(`{"id":"evt_paid","type":"invoice.paid","created":%d,"data":{"object":{"id":"in_1","amount_paid":4000,"currency":"usd","payment_intent":"pi_paid","metadata":{"user_id":"%d"}}}}`, now.Unix(), referred.ID))

	result, err := svc.HandleStripe(signBillingPayload(t, body, now), body)
	if err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}
	if result.Action != BillingActionConverted || result.EventID != "evt_paid" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := mustBalance(t, env, affiliate.ID); got != 800 {
		t.Fatalf("expected commission 800, got %d", got)
	}

	// 重复投递不重复入账
	again, err := svc.HandleStripe(signBillingPayload(t, body, now), body)
	if err != nil {
		t.Fatalf("replay webhook failed: %v", err)
	}
	if again.Action != BillingActionConverted {
		t.Fatalf("unexpected replay action: %s", again.Action)
	}
	if got := mustBalance(t, env, affiliate.ID); got != 800 {
		t.Fatalf("replay must not credit twice, got %d", got)
	}

	refundBody := []byte(fmt.Sprintf(`{"id":"evt_refund","type":"charge.refunded","data":{"object":{"id":"ch_1","amount_refunded":4000,"currency":"usd","payment_intent":"pi_paid","metadata":{"user_id":"%d"}}}}`, referred.ID))
	refund, err := svc.HandleStripe(signBillingPayload(t, refundBody, now), refundBody)
	if err != nil {
		t.Fatalf("refund webhook failed: %v", err)
	}
	if refund.Action != BillingActionRefund || refund.Refund == nil || !refund.Refund.Processed || refund.Refund.Adjustment != -800 {
		t.Fatalf("unexpected refund result: %+v", refund)
	}
	if got := mustBalance(t, env, affiliate.ID); got != 0 {
		t.Fatalf("expected balance 0 after refund, got %d", got)
	}
}

func TestBillingWebhookIgnoresUnattributedEvents(t *testing.T) {
	env := setupAffiliateServiceTest(t)
	stranger := createAffiliateTestUser(t, env.db, "stranger-billing@example.com")
	now := time.Now()
	svc := newBillingTestService(t, env, now)

	tests := []struct {
		name string
		body string
	}{
		{name: "no user metadata", body: `{"id":"evt_1","type":"invoice.paid","data":{"object":{"id":"in_1","amount_paid":100,"currency":"usd"}}}`},
		{name: "user without referral", body: fmt.Sprintf(`{"id":"evt_2","type":"invoice.paid","data":{"object":{"id":"in_2","amount_paid":100,"currency":"usd","metadata":{"user_id":"%d"}}}}`, stranger.ID)},
		{name: "unhandled type", body: fmt.Sprintf(`{"id":"evt_3","type":"customer.created","data":{"object":{"id":"cus_1","metadata":{"user_id":"%d"}}}}`, stranger.ID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(tt.body)
			result, err := svc.HandleStripe(signBillingPayload(t, body, now), body)
			if err != nil {
				t.Fatalf("handle webhook failed: %v", err)
			}
			if result.Action != BillingActionIgnored {
				t.Fatalf("expected ignored, got %s", result.Action)
			}
		})
	}
}

func TestBillingWebhookRejectsBadSignature(t *testing.T) {
	env := setupAffiliateServiceTest(t)
	now := time.Now()
	svc := newBillingTestService(t, env, now)
	body := []byte(`{"id":"evt_bad","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)

	headers := signBillingPayload(t, body, now)
	tampered := []byte(`{"id":"evt_bad","type":"invoice.paid","data":{"object":{"id":"in_2"}}}`)
	if _, err := svc.HandleStripe(headers, tampered); !errors.Is(err, ErrWebhookSignatureInvalid) {
		t.Fatalf("expected ErrWebhookSignatureInvalid, got %v", err)
	}

	stale := signBillingPayload(t, body, now.Add(-time.Hour))
	if _, err := svc.HandleStripe(stale, body); !errors.Is(err, ErrWebhookSignatureInvalid) {
		t.Fatalf("expected stale signature rejected, got %v", err)
	}

	invalidJSON := []byte(`not-json`)
	if _, err := svc.HandleStripe(signBillingPayload(t, invalidJSON, now), invalidJSON); !errors.Is(err, ErrWebhookPayloadInvalid) {
		t.Fatalf("expected ErrWebhookPayloadInvalid, got %v", err)
	}
}
