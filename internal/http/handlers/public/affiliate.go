package public

import (
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// AffiliateValidateQuery 推广码校验参数
type AffiliateValidateQuery struct {
	Code string `form:"code"`
}

// AffiliateCodeData 推广码校验成功时返回的数据
type AffiliateCodeData struct {
	Code           string      `json:"code"`
	Tier           int         `json:"tier"`
	CommissionRate models.Rate `json:"commissionRate"`
}

// ValidateAffiliateCode 校验推广码
// 不存在返回 404，账户非 ACTIVE 返回 400，二者 valid 均为 false。
func (h *Handler) ValidateAffiliateCode(c *gin.Context) {
	var query AffiliateValidateQuery
	if !shared.BindQuery(c, &query) {
		return
	}
	locale := i18n.ResolveLocale(c)
	if strings.TrimSpace(query.Code) == "" {
		response.Validation(c, response.CodeBadRequest, false, nil, i18n.T(locale, "error.affiliate_code_required"))
		return
	}

	result, err := h.AffiliateService.Validate(c.Request.Context(), query.Code)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.affiliate_fetch_failed", err)
		return
	}
	switch {
	case !result.Found:
		response.Validation(c, response.CodeNotFound, false, nil, i18n.T(locale, "error.affiliate_not_found"))
	case !result.Valid:
		response.Validation(c, response.CodeBadRequest, false, nil, i18n.T(locale, "error.affiliate_code_inactive"))
	default:
		response.Validation(c, response.CodeOK, true, AffiliateCodeData{
			Code:           result.Code,
			Tier:           result.Tier,
			CommissionRate: result.CommissionRate,
		}, "")
	}
}

// AffiliateTrackQuery 推广链接访问参数
type AffiliateTrackQuery struct {
	Code        string `form:"code" binding:"required"`
	VisitorKey  string `form:"visitor_key"`
	LandingPath string `form:"landing_path"`
	Source      string `form:"source"`
}

// TrackAffiliateClick 记录推广链接访问并签发推荐令牌，注册时携带令牌完成归因
func (h *Handler) TrackAffiliateClick(c *gin.Context) {
	var query AffiliateTrackQuery
	if !shared.BindQuery(c, &query) {
		return
	}
	token, data, err := h.ReferralService.IssueReferralToken(service.TrackClickInput{
		Code:        query.Code,
		Source:      query.Source,
		VisitorKey:  query.VisitorKey,
		LandingPath: query.LandingPath,
		Referrer:    c.GetHeader("Referer"),
		ClientIP:    c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	})
	if err != nil {
		shared.RespondMappedError(c, err, referralTrackErrorRules, response.CodeInternal, "error.referral_track_failed")
		return
	}
	response.Success(c, gin.H{
		"referralToken": token,
		"referral":      data,
	})
}

// JoinAffiliate 开通推广账户，已开通时返回现有账户
func (h *Handler) JoinAffiliate(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	affiliate, err := h.AffiliateService.Join(uid)
	if err != nil {
		shared.RespondMappedError(c, err, affiliateAccountErrorRules, response.CodeInternal, "error.affiliate_join_failed")
		return
	}
	response.Success(c, affiliate)
}

// GetAffiliateDashboard 推广者面板
func (h *Handler) GetAffiliateDashboard(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	dashboard, err := h.AffiliateService.Dashboard(c.Request.Context(), uid)
	if err != nil {
		shared.RespondMappedError(c, err, affiliateAccountErrorRules, response.CodeInternal, "error.affiliate_fetch_failed")
		return
	}
	response.Success(c, dashboard)
}

// ListMyReferrals 我的推荐记录
func (h *Handler) ListMyReferrals(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	rows, total, err := h.ReferralService.ListForAffiliate(uid, repository.ReferralListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		shared.RespondMappedError(c, err, affiliateAccountErrorRules, response.CodeInternal, "error.referral_fetch_failed")
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// ListMyPayouts 我的提现记录
func (h *Handler) ListMyPayouts(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	filter := repository.PayoutListFilter{Page: page, PageSize: pageSize}
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		filter.Statuses = []string{status}
	}
	rows, total, err := h.PayoutService.ListForAffiliate(uid, filter)
	if err != nil {
		shared.RespondMappedError(c, err, affiliateAccountErrorRules, response.CodeInternal, "error.payout_fetch_failed")
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// PayoutRequest 提现申请请求
type PayoutRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Method  string `json:"method" binding:"required"`
	Account string `json:"account" binding:"required"`
}

// RequestPayout 推广者申请提现，金额为最小货币单位
func (h *Handler) RequestPayout(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req PayoutRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	payout, err := h.PayoutService.RequestPayout(uid, service.PayoutRequestInput{
		Amount:  req.Amount,
		Method:  req.Method,
		Account: req.Account,
	})
	if err != nil {
		shared.RespondMappedError(c, err, payoutRequestErrorRules, response.CodeInternal, "error.payout_request_failed")
		return
	}
	response.Success(c, payout)
}

// AttributeReferralRequest 补录推荐关系请求，推广码与推荐令牌二选一
type AttributeReferralRequest struct {
	Code          string `json:"code"`
	ReferralToken string `json:"referralToken"`
}

// AttributeReferral 当前用户补录推荐人
func (h *Handler) AttributeReferral(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req AttributeReferralRequest
	if !shared.BindJSON(c, &req) {
		return
	}

	var (
		referral *models.Referral
		err      error
	)
	switch {
	case strings.TrimSpace(req.ReferralToken) != "":
		referral, err = h.ReferralService.AttributeSignup(uid, req.ReferralToken)
	case strings.TrimSpace(req.Code) != "":
		referral, err = h.ReferralService.TrackReferral(req.Code, uid, constants.ReferralSourceManual)
	default:
		shared.RespondError(c, response.CodeBadRequest, "error.affiliate_code_required", nil)
		return
	}
	if err != nil {
		shared.RespondMappedError(c, err, referralTrackErrorRules, response.CodeInternal, "error.referral_track_failed")
		return
	}
	response.Success(c, referral)
}
