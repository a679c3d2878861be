package shared

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames 校验错误使用 json/form 标签名
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
	})
}

// BindJSON 绑定请求体，失败时返回 400 与逐字段提示
func BindJSON(c *gin.Context, target interface{}) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(target); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// BindQuery 绑定查询参数
func BindQuery(c *gin.Context, target interface{}) bool {
	useJSONFieldNames()
	if err := c.ShouldBindQuery(target); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// RespondBindError 将绑定错误展开为 {field: message}
func RespondBindError(c *gin.Context, err error) {
	locale := i18n.ResolveLocale(c)
	fields := FlattenBindError(locale, err)
	RequestLog(c).Debugw("request_bind_failed", "error", err)
	response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, "error.validation_failed"), fields)
}

// FlattenBindError 展开校验错误
func FlattenBindError(locale string, err error) map[string]string {
	fields := make(map[string]string)
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			name := lowerFirst(fieldErr.Field())
			fields[name] = validationMessage(locale, name, fieldErr)
		}
		return fields
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields[typeErr.Field] = i18n.Sprintf(locale, "validation.invalid", typeErr.Field)
		return fields
	}
	fields["body"] = i18n.T(locale, "error.bad_request")
	return fields
}

func validationMessage(locale, name string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return i18n.Sprintf(locale, "validation.required", name)
	case "min", "gte":
		return i18n.Sprintf(locale, "validation.min", name, fieldErr.Param())
	case "max", "lte":
		return i18n.Sprintf(locale, "validation.max", name, fieldErr.Param())
	case "gt":
		return i18n.Sprintf(locale, "validation.gt", name, fieldErr.Param())
	case "oneof":
		return i18n.Sprintf(locale, "validation.oneof", name, strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "email":
		return i18n.Sprintf(locale, "validation.email", name)
	default:
		return i18n.Sprintf(locale, "validation.invalid", name)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
