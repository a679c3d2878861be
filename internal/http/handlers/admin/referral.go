package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListReferrals 推荐记录列表
func (h *Handler) ListReferrals(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.ReferralListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		CreatedFrom: parseOptionalTime(c.Query("created_from")),
		CreatedTo:   parseOptionalTime(c.Query("created_to")),
	}
	if affiliateID, ok := parseOptionalUint(c.Query("affiliate_id")); ok {
		filter.AffiliateID = affiliateID
	}
	rows, total, err := h.ReferralService.ListAdmin(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.referral_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

func parseOptionalUint(raw string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// parseOptionalTime 支持 RFC3339 与 2006-01-02
func parseOptionalTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}
