package admin

import (
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// CommissionRefundRequest 退款/拒付冲销请求
type CommissionRefundRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	ReferenceID string `json:"referenceId"`
	Type        string `json:"type" binding:"required"`
}

// CommissionRefundData 冲销成功返回
type CommissionRefundData struct {
	ReferralID          uint   `json:"referralId"`
	AffiliateID         uint   `json:"affiliateId"`
	Adjustment          int64  `json:"adjustment"`
	AdjustmentFormatted string `json:"adjustmentFormatted"`
}

// CommissionConvertRequest 手工转化请求
type CommissionConvertRequest struct {
	UserID    uint   `json:"userId" binding:"required"`
	Reference string `json:"reference" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Currency  string `json:"currency"`
}

// ProcessCommissionRefund 冲销被推荐用户的佣金
// 无需冲销时返回 {success:false, reason}。
func (h *Handler) ProcessCommissionRefund(c *gin.Context) {
	var req CommissionRefundRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	result, err := h.ReferralService.ProcessRefund(shared.OperatorFromContext(c), service.RefundInput{
		UserID:      req.UserID,
		ReferenceID: req.ReferenceID,
		Type:        req.Type,
	})
	if err != nil {
		shared.RespondMappedError(c, err, commissionErrorRules, response.CodeInternal, "error.refund_failed")
		return
	}
	if !result.Processed {
		shared.RespondReject(c, result.Reason)
		return
	}
	response.Success(c, CommissionRefundData{
		ReferralID:          result.ReferralID,
		AffiliateID:         result.AffiliateID,
		Adjustment:          result.Adjustment,
		AdjustmentFormatted: result.AdjustmentFormatted,
	})
}

// ConvertCommission 管理端手工标记转化
func (h *Handler) ConvertCommission(c *gin.Context) {
	var req CommissionConvertRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	referral, err := h.ReferralService.ConvertReferral(shared.OperatorFromContext(c), service.ConversionInput{
		UserID:    req.UserID,
		Reference: req.Reference,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		shared.RespondMappedError(c, err, commissionErrorRules, response.CodeInternal, "error.convert_failed")
		return
	}
	response.Success(c, referral)
}
