package admin

import (
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs 推广业务审计日志
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		Action:      strings.TrimSpace(c.Query("action")),
		TargetType:  strings.TrimSpace(c.Query("target_type")),
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		CreatedFrom: parseOptionalTime(c.Query("created_from")),
		CreatedTo:   parseOptionalTime(c.Query("created_to")),
	}
	if adminID, ok := parseOptionalUint(c.Query("operator_admin_id")); ok {
		filter.OperatorAdminID = adminID
	}
	if targetID, ok := parseOptionalUint(c.Query("target_id")); ok {
		filter.TargetID = targetID
	}
	rows, total, err := h.AuditService.ListForAdmin(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.audit_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}
