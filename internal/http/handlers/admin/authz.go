package admin

import (
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/authz"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

type authzSetAdminRolesPayload struct {
	Roles []string `json:"roles"`
}

type authzRoleItem struct {
	Role     string         `json:"role"`
	Policies []authz.Policy `json:"policies"`
}

// ListAuthzRoles 角色及其直接策略
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	items := make([]authzRoleItem, 0, len(roles))
	for _, role := range roles {
		policies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			shared.RespondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		items = append(items, authzRoleItem{Role: role, Policies: policies})
	}
	response.Success(c, items)
}

// GetAuthzAdminRoles 查询管理员角色
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := h.loadTargetAdmin(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzAdminRoles 覆盖设置管理员角色，只接受预置角色
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := h.loadTargetAdmin(c)
	if !ok {
		return
	}
	var req authzSetAdminRolesPayload
	if !shared.BindJSON(c, &req) {
		return
	}
	roles, err := h.AuthzService.SetAdminRoles(adminID, req.Roles)
	if err != nil {
		shared.RespondMappedError(c, err, authzErrorRules, response.CodeInternal, "error.authz_failed")
		return
	}
	if err := h.AuditService.Record(service.AuditRecordInput{
		Operator:   shared.OperatorFromContext(c),
		Action:     constants.AuditActionAdminRolesAssigned,
		TargetType: constants.AuditTargetAdmin,
		TargetID:   adminID,
		Detail:     models.JSON{"roles": roles},
	}); err != nil {
		shared.RequestLog(c).Warnw("admin_roles_audit_failed", "target_admin_id", adminID, "error", err)
	}
	shared.RequestLog(c).Infow("admin_authz_admin_roles_updated",
		"operator_admin_id", c.GetUint(shared.ContextKeyAdminID),
		"target_admin_id", adminID,
		"roles", roles,
	)
	response.Success(c, roles)
}

func (h *Handler) loadTargetAdmin(c *gin.Context) (uint, bool) {
	adminID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		shared.RespondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
		return 0, false
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return 0, false
	}
	if admin == nil {
		shared.RespondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		return 0, false
	}
	return adminID, true
}
