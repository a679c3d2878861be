package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/i18n"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中提取限流维度
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// NewRateLimitRule 由配置生成限流规则
func NewRateLimitRule(prefix string, cfg config.RateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        prefix,
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
	}
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) redisKey(subject string) string {
	if r.Prefix == "" {
		return subject
	}
	return "ratelimit:" + r.Prefix + ":" + subject
}

func (r RateLimitRule) messageKey() string {
	if key := strings.TrimSpace(r.MessageKey); key != "" {
		return key
	}
	return "error.rate_limited"
}

// INCR 后首次计数时设置过期，返回 {count, ttl}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

type windowCount struct {
	count      int64
	ttlSeconds int64
}

func countInWindow(ctx context.Context, client *redis.Client, key string, windowSeconds int) (windowCount, error) {
	values, err := fixedWindowScript.Run(ctx, client, []string{key}, windowSeconds).Int64Slice()
	if err != nil {
		return windowCount{}, err
	}
	if len(values) < 2 {
		return windowCount{}, fmt.Errorf("unexpected rate limit reply: %v", values)
	}
	return windowCount{count: values[0], ttlSeconds: values[1]}, nil
}

// RateLimitMiddleware Redis 固定窗口限流；未启用 Redis 或规则未配置时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}

		subject := ""
		if keyFunc != nil {
			subject = strings.TrimSpace(keyFunc(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}
		key := rule.redisKey(subject)

		window, err := countInWindow(c.Request.Context(), client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_eval_failed", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if window.count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		wait := int(window.ttlSeconds)
		if wait < 1 {
			wait = rule.WindowSeconds
		}
		metrics.RateLimited.WithLabelValues(rule.Prefix).Inc()
		c.Header("Retry-After", strconv.Itoa(wait))
		response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), rule.messageKey(), wait))
		c.Abort()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndQuery 按查询参数 + IP 限流，参数缺失时退化为 IP
func KeyByIPAndQuery(param string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return joinWithIP(c, c.Query(param))
	}
}

// KeyByIPAndJSONField 按 JSON 字段 + IP 限流，如登录邮箱
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return joinWithIP(c, peekJSONField(c, field))
	}
}

func joinWithIP(c *gin.Context, value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return c.ClientIP()
	}
	return value + "|" + c.ClientIP()
}

// peekJSONField 读取请求体中的字符串字段并回填 Body
func peekJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	var payload map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	var text string
	if raw, ok := payload[field]; !ok || json.Unmarshal(raw, &text) != nil {
		return ""
	}
	return text
}
