package admin

import (
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"github.com/gin-gonic/gin"
)

// AffiliateStatusRequest 推广账户状态调整
type AffiliateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AffiliateCommissionRequest 佣金比例与等级调整
type AffiliateCommissionRequest struct {
	CommissionRate models.Rate `json:"commissionRate"`
	Tier           int         `json:"tier" binding:"required,min=1"`
}

// ListAffiliates 推广账户列表
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	rows, total, err := h.AffiliateService.ListAdmin(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// UpdateAffiliateStatus 启用/停用/暂停推广账户
func (h *Handler) UpdateAffiliateStatus(c *gin.Context) {
	affiliateID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req AffiliateStatusRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	affiliate, err := h.AffiliateService.UpdateStatus(shared.OperatorFromContext(c), affiliateID, req.Status)
	if err != nil {
		shared.RespondMappedError(c, err, affiliateManageErrorRules, response.CodeInternal, "error.affiliate_update_failed")
		return
	}
	response.Success(c, affiliate)
}

// UpdateAffiliateCommission 调整佣金比例与等级
func (h *Handler) UpdateAffiliateCommission(c *gin.Context) {
	affiliateID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req AffiliateCommissionRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	affiliate, err := h.AffiliateService.UpdateRateTier(shared.OperatorFromContext(c), affiliateID, req.CommissionRate, req.Tier)
	if err != nil {
		shared.RespondMappedError(c, err, affiliateManageErrorRules, response.CodeInternal, "error.affiliate_update_failed")
		return
	}
	response.Success(c, affiliate)
}
