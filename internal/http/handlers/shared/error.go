package shared

import (
	"errors"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(ContextKeyRequestID); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应；服务端错误记录原始错误，客户端只看到通用提示。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	appErr := response.NewAppError(code, key, i18n.T(locale, key), err)
	logAppError(c, appErr)
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.NewAppError(code, "", msg, err)
	logAppError(c, appErr)
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondReject 返回业务拒绝 {success:false, reason}
func RespondReject(c *gin.Context, reason string) {
	response.Reject(c, response.CodeBadRequest, reason, nil)
}

func logAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err == nil {
		return
	}
	if appErr.Internal() {
		RequestLog(c).Errorw("handler_error", appErr.LogFields()...)
		return
	}
	RequestLog(c).Warnw("handler_rejected", appErr.LogFields()...)
}

// MappedError 业务错误到接口错误响应的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按规则表映射错误，未命中时返回兜底错误并记录日志。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	var keyed interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &keyed) {
		locale := i18n.ResolveLocale(c)
		response.Error(c, response.CodeBadRequest, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...))
		return
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
