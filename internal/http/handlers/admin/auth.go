package admin

import (
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		shared.RespondMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	shared.RequestLog(c).Infow("admin_login_success", "admin_id", admin.ID, "client_ip", c.ClientIP())
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetAdminMe 当前管理员与角色
func (h *Handler) GetAdminMe(c *gin.Context) {
	adminID, ok := shared.GetAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.GetAdmin(adminID)
	if err != nil {
		shared.RespondMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.internal")
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"id":          admin.ID,
		"username":    admin.Username,
		"is_super":    admin.IsSuper,
		"roles":       roles,
		"lastLoginAt": admin.LastLoginAt,
	})
}

// ChangeAdminPassword 修改管理员密码
func (h *Handler) ChangeAdminPassword(c *gin.Context) {
	adminID, ok := shared.GetAdminID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	if err := h.AuthService.ChangePassword(adminID, req.OldPassword, req.NewPassword); err != nil {
		shared.RespondMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.password_change_failed")
		return
	}
	response.Success(c, gin.H{"ok": true})
}
