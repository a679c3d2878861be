package admin

import (
	"errors"
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// PayoutProcessRequest 提现打款请求
type PayoutProcessRequest struct {
	PayoutID uint `json:"payoutId" binding:"required"`
}

// PayoutRejectRequest 提现驳回请求
type PayoutRejectRequest struct {
	PayoutID uint   `json:"payoutId" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// ProcessPayout 调用渠道打款；渠道失败时提现单置为 FAILED 并返回 {success:false, error}
func (h *Handler) ProcessPayout(c *gin.Context) {
	var req PayoutProcessRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	payout, err := h.PayoutService.Process(c.Request.Context(), shared.OperatorFromContext(c), req.PayoutID)
	if err != nil {
		if errors.Is(err, service.ErrPayoutProviderFailed) && payout != nil {
			shared.RequestLog(c).Warnw("admin_payout_process_failed", "payout_id", payout.ID, "error", err)
			locale := i18n.ResolveLocale(c)
			response.ErrorWithData(c, response.CodeBadRequest, i18n.Sprintf(locale, "error.payout_provider_failed", payout.Notes), payout)
			return
		}
		shared.RespondMappedError(c, err, payoutAdminErrorRules, response.CodeInternal, "error.payout_process_failed")
		return
	}
	response.Success(c, payout)
}

// RejectPayout 驳回提现并退回冻结金额
func (h *Handler) RejectPayout(c *gin.Context) {
	var req PayoutRejectRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	payout, err := h.PayoutService.Reject(shared.OperatorFromContext(c), req.PayoutID, req.Reason)
	if err != nil {
		shared.RespondMappedError(c, err, payoutAdminErrorRules, response.CodeInternal, "error.payout_process_failed")
		return
	}
	response.Success(c, payout)
}

// ApprovePayout 审核通过，等待打款
func (h *Handler) ApprovePayout(c *gin.Context) {
	payoutID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	payout, err := h.PayoutService.Approve(shared.OperatorFromContext(c), payoutID)
	if err != nil {
		shared.RespondMappedError(c, err, payoutAdminErrorRules, response.CodeInternal, "error.payout_process_failed")
		return
	}
	response.Success(c, payout)
}

// ListPendingPayouts 待处理提现（PENDING 与 APPROVED），按申请时间升序
func (h *Handler) ListPendingPayouts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	rows, total, err := h.PayoutService.ListPending(page, pageSize)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.payout_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// ListPayouts 提现单列表
func (h *Handler) ListPayouts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		Method:   strings.ToUpper(strings.TrimSpace(c.Query("method"))),
	}
	if affiliateID, ok := parseOptionalUint(c.Query("affiliate_id")); ok {
		filter.AffiliateID = affiliateID
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		for _, item := range strings.Split(status, ",") {
			if value := strings.ToUpper(strings.TrimSpace(item)); value != "" {
				filter.Statuses = append(filter.Statuses, value)
			}
		}
	}
	rows, total, err := h.PayoutService.ListAdmin(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.payout_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
