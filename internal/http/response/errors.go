package response

// 业务状态码，非 0 时同时作为 HTTP 状态返回
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// AppError 一次失败响应：状态码、i18n key、对外提示与内部原因
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

// NewAppError 创建接口错误
func NewAppError(code int, key, message string, err error) *AppError {
	return &AppError{Code: code, Key: key, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal 5xx 视为服务端错误
func (e *AppError) Internal() bool {
	return e != nil && e.Code >= CodeInternal
}

// LogFields 结构化日志字段，不含对外提示语
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{"code", e.Code}
	if e.Key != "" {
		fields = append(fields, "key", e.Key)
	}
	if e.Err != nil {
		fields = append(fields, "error", e.Err)
	}
	return fields
}
