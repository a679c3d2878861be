package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success    bool        `json:"success"`              // 是否成功
	StatusCode int         `json:"status_code"`          // 业务状态码
	Msg        string      `json:"msg,omitempty"`        // 提示消息
	Data       interface{} `json:"data,omitempty"`       // 数据内容
	Reason     string      `json:"reason,omitempty"`     // 业务拒绝原因
	Error      string      `json:"error,omitempty"`      // 错误信息
	Pagination *Pagination `json:"pagination,omitempty"` // 分页信息
	RequestID  string      `json:"request_id,omitempty"` // 请求ID
}

// ValidationResponse 推广码校验响应
type ValidationResponse struct {
	Valid     bool        `json:"valid"`
	Data      interface{} `json:"data,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// BuildPagination 根据总数计算分页信息
func BuildPagination(page, pageSize int, total int64) Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
		Pagination: &pagination,
	})
}

// Error 错误响应，HTTP 状态与业务码一致
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	c.JSON(httpStatus(statusCode), Response{
		Success:    false,
		StatusCode: statusCode,
		Msg:        msg,
		Error:      msg,
		Data:       data,
		RequestID:  requestID(c),
	})
}

// Reject 业务拒绝：返回 {success:false, reason}
func Reject(c *gin.Context, statusCode int, reason string, data interface{}) {
	c.JSON(httpStatus(statusCode), Response{
		Success:    false,
		StatusCode: statusCode,
		Reason:     reason,
		Data:       data,
		RequestID:  requestID(c),
	})
}

// Validation 推广码校验结果
func Validation(c *gin.Context, statusCode int, valid bool, data interface{}, reason string) {
	c.JSON(httpStatus(statusCode), ValidationResponse{
		Valid:     valid,
		Data:      data,
		Reason:    reason,
		RequestID: requestID(c),
	})
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 403响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

func httpStatus(code int) int {
	if code < http.StatusBadRequest || code > 599 {
		if code == CodeOK {
			return http.StatusOK
		}
		return http.StatusInternalServerError
	}
	return code
}

func requestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
