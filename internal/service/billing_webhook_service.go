package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/payment/stripe"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/queue"
)

// 计费事件处理动作
const (
	BillingActionConvertQueued = "convert_queued"
	BillingActionConverted     = "converted"
	BillingActionRefund        = "refund"
	BillingActionIgnored       = "ignored"
)

// BillingWebhookService Stripe 计费回调：支付成功触发转化，退款与拒付触发佣金冲正
type BillingWebhookService struct {
	cfg         *stripe.Config
	referrals   *ReferralService
	queueClient *queue.Client
	now         func() time.Time
}

// NewBillingWebhookService 创建计费回调服务
func NewBillingWebhookService(cfg config.StripePayoutConfig, referrals *ReferralService, queueClient *queue.Client) *BillingWebhookService {
	return &BillingWebhookService{
		cfg: stripe.NormalizeConfig(stripe.Config{
			SecretKey:               cfg.SecretKey,
			WebhookSecret:           cfg.WebhookSecret,
			APIBaseURL:              cfg.APIBaseURL,
			WebhookToleranceSeconds: cfg.WebhookToleranceSeconds,
		}),
		referrals:   referrals,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// BillingWebhookResult 回调处理结果
type BillingWebhookResult struct {
	EventID   string        `json:"eventId"`
	EventType string        `json:"eventType"`
	Action    string        `json:"action"`
	Refund    *RefundResult `json:"refund,omitempty"`
}

// HandleStripe 校验签名并分发事件
func (s *BillingWebhookService) HandleStripe(headers map[string]string, body []byte) (*BillingWebhookResult, error) {
	event, err := stripe.VerifyAndParseWebhook(s.cfg, headers, body, s.now())
	if err != nil {
		switch {
		case errors.Is(err, stripe.ErrSignatureInvalid), errors.Is(err, stripe.ErrConfigInvalid):
			return nil, fmt.Errorf("%w: %v", ErrWebhookSignatureInvalid, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrWebhookPayloadInvalid, err)
		}
	}
	result := &BillingWebhookResult{
		EventID:   event.EventID,
		EventType: event.EventType,
		Action:    BillingActionIgnored,
	}
	if event.UserID == 0 {
		return result, nil
	}

	switch event.EventType {
	case "invoice.paid", "checkout.session.completed":
		if event.Amount <= 0 {
			return result, nil
		}
		action, err := s.convert(event)
		if err != nil {
			return nil, err
		}
		result.Action = action
	case "charge.refunded", "charge.dispute.created":
		refundType := constants.CommissionAdjustRefund
		if event.EventType == "charge.dispute.created" {
			refundType = constants.CommissionAdjustChargeback
		}
		refund, err := s.referrals.ProcessRefund(Operator{}, RefundInput{
			UserID:      event.UserID,
			ReferenceID: event.Reference,
			Type:        refundType,
		})
		if err != nil {
			return nil, err
		}
		result.Action = BillingActionRefund
		result.Refund = refund
	}
	return result, nil
}

func (s *BillingWebhookService) convert(event *stripe.WebhookEvent) (string, error) {
	payload := queue.ReferralConvertPayload{
		UserID:    event.UserID,
		Reference: event.Reference,
		Amount:    event.Amount,
		Currency:  event.Currency,
		Source:    "stripe:" + event.EventType,
	}
	if err := s.queueClient.EnqueueReferralConvert(payload); err == nil {
		return BillingActionConvertQueued, nil
	} else if s.queueClient.Enabled() {
		logger.Warnw("billing_webhook_enqueue_convert_failed", "event_id", event.EventID, "error", err)
	}

	// 队列不可用时同步转化
	_, err := s.referrals.ConvertReferral(Operator{}, ConversionInput{
		UserID:    payload.UserID,
		Reference: payload.Reference,
		Amount:    payload.Amount,
		Currency:  payload.Currency,
	})
	switch {
	case err == nil:
		return BillingActionConverted, nil
	case errors.Is(err, ErrReferralNotFound), errors.Is(err, ErrReferralStateInvalid), errors.Is(err, ErrConversionAmountInvalid):
		return BillingActionIgnored, nil
	default:
		return "", err
	}
}
