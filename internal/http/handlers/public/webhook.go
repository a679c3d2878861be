package public

import (
	"io"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

var billingWebhookErrorRules = []shared.MappedError{
	{Target: service.ErrWebhookSignatureInvalid, Code: response.CodeBadRequest, Key: "error.webhook_signature_invalid"},
	{Target: service.ErrWebhookPayloadInvalid, Code: response.CodeBadRequest, Key: "error.webhook_payload_invalid"},
	{Target: service.ErrReferralStateInvalid, Code: response.CodeConflict, Key: "error.referral_state_invalid"},
}

// HandleStripeBillingWebhook 计费回调：支付成功触发转化，退款/拒付冲销佣金
func (h *Handler) HandleStripeBillingWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.webhook_payload_invalid", err)
		return
	}
	headers := make(map[string]string, len(c.Request.Header))
	for key := range c.Request.Header {
		headers[key] = c.GetHeader(key)
	}

	result, err := h.BillingWebhookService.HandleStripe(headers, body)
	if err != nil {
		shared.RespondMappedError(c, err, billingWebhookErrorRules, response.CodeInternal, "error.webhook_failed")
		return
	}
	shared.RequestLog(c).Infow("billing_webhook_handled",
		"event_id", result.EventID,
		"event_type", result.EventType,
		"action", result.Action,
	)
	response.Success(c, result)
}
