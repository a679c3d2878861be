package shared

import (
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
	ContextKeyAdminID   = "admin_id"
	ContextKeyUsername  = "username"
)

// GetContextUint 从上下文读取 uint 值；缺失视为未登录。
func GetContextUint(c *gin.Context, key, invalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeUnauthorized, invalidKey, nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeUnauthorized, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, invalidKey, nil)
		return 0, false
	}
}

// GetUserID 当前登录用户
func GetUserID(c *gin.Context) (uint, bool) {
	return GetContextUint(c, ContextKeyUserID, "error.user_id_invalid")
}

// GetAdminID 当前登录管理员
func GetAdminID(c *gin.Context) (uint, bool) {
	return GetContextUint(c, ContextKeyAdminID, "error.admin_id_invalid")
}

// OperatorFromContext 构造审计操作人
func OperatorFromContext(c *gin.Context) service.Operator {
	op := service.Operator{
		AdminID:   c.GetUint(ContextKeyAdminID),
		Username:  c.GetString(ContextKeyUsername),
		RequestID: c.GetString(ContextKeyRequestID),
	}
	return op
}
