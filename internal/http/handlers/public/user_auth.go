package public

import (
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	DisplayName   string `json:"displayName"`
	ReferralToken string `json:"referralToken"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserChangePasswordRequest 修改密码请求
type UserChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"locale":      user.Locale,
		"status":      user.Status,
	}
}

// UserRegister 用户注册；推荐令牌归因失败不影响注册结果
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	result, err := h.UserAuthService.Register(service.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		DisplayName:   req.DisplayName,
		Locale:        i18n.ResolveLocale(c),
		ReferralToken: req.ReferralToken,
	})
	if err != nil {
		shared.RespondMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.register_failed")
		return
	}

	data := gin.H{
		"user":       userPayload(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	}
	if result.Referral != nil {
		data["referral"] = result.Referral
	}
	if result.AttributionError != nil {
		shared.RequestLog(c).Infow("user_register_referral_skipped", "user_id", result.User.ID, "error", result.AttributionError)
	}
	response.Success(c, data)
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		shared.RespondMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	response.Success(c, gin.H{
		"user":       userPayload(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		shared.RespondMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, userPayload(user))
}

// ChangeUserPassword 修改密码，成功后旧 Token 全部失效
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req UserChangePasswordRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	if err := h.UserAuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		shared.RespondMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.password_change_failed")
		return
	}
	response.Success(c, gin.H{"ok": true})
}
