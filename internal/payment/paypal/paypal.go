package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
)

var (
	ErrConfigInvalid   = errors.New("paypal config invalid")
	ErrAuthFailed      = errors.New("paypal auth failed")
	ErrRequestFailed   = errors.New("paypal request failed")
	ErrResponseInvalid = errors.New("paypal response invalid")
)

const (
	defaultSandboxBaseURL = "https://api-m.sandbox.paypal.com"
	defaultEmailSubject   = "You have a payout"
	defaultTimeout        = 12 * time.Second
	payoutsEndpoint       = "/v1/payments/payouts"
)

// Config PayPal Payouts 配置。
type Config struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	BaseURL      string `json:"base_url"`
	EmailSubject string `json:"email_subject"`
}

// PayoutInput 发起单笔 PayPal 打款输入。
type PayoutInput struct {
	Reference string // 提现单号，作为 sender_item_id
	Amount    int64  // 最小货币单位
	Currency  string
	Receiver  string // 收款 PayPal 邮箱
	Note      string
}

// PayoutResult 打款批次返回。
type PayoutResult struct {
	BatchID       string
	SenderBatchID string
	Status        string
	Raw           map[string]interface{}
}

// APIError PayPal 返回的业务错误。
type APIError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("paypal %s: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("paypal status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrRequestFailed
}

// NormalizeConfig 去除空白并补全默认值。
func NormalizeConfig(cfg Config) *Config {
	cfg.normalize()
	return &cfg
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return fmt.Errorf("%w: client_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return fmt.Errorf("%w: client_secret is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.BaseURL)); err != nil {
		return fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// Configured 是否已配置凭据。
func (c *Config) Configured() bool {
	return c != nil && strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// CreatePayout 通过 Payouts API 向单个 PayPal 邮箱打款。
func CreatePayout(ctx context.Context, cfg *Config, input PayoutInput) (*PayoutResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	receiver := strings.TrimSpace(input.Receiver)
	if _, err := mail.ParseAddress(receiver); err != nil {
		return nil, fmt.Errorf("%w: receiver must be an email address", ErrConfigInvalid)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	ref := strings.TrimSpace(input.Reference)
	if ref == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrConfigInvalid)
	}

	token, err := getAccessToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// PayPal 按 sender_batch_id 去重，重复提交同一单号不会重复打款
	senderBatchID := ref
	item := map[string]interface{}{
		"recipient_type": "EMAIL",
		"receiver":       receiver,
		"sender_item_id": ref,
		"amount": map[string]string{
			"value":    models.MinorToDecimal(input.Amount, currency).StringFixed(models.CurrencyScale(currency)),
			"currency": currency,
		},
	}
	if note := strings.TrimSpace(input.Note); note != "" {
		item["note"] = note
	}
	payload := map[string]interface{}{
		"sender_batch_header": map[string]string{
			"sender_batch_id": senderBatchID,
			"email_subject":   cfg.EmailSubject,
			"recipient_type":  "EMAIL",
		},
		"items": []interface{}{item},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload failed", ErrRequestFailed)
	}

	respBody, status, err := doJSONRequest(ctx, cfg, http.MethodPost, payoutsEndpoint, token, body)
	if err != nil {
		return nil, err
	}
	parsed := map[string]interface{}{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, fmt.Errorf("%w: decode payout response failed", ErrResponseInvalid)
		}
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{
			StatusCode: status,
			Name:       strings.TrimSpace(readString(parsed, "name")),
			Message:    strings.TrimSpace(readString(parsed, "message")),
		}
	}

	batchID := strings.TrimSpace(readString(parsed, "batch_header", "payout_batch_id"))
	if batchID == "" {
		return nil, fmt.Errorf("%w: missing payout_batch_id", ErrResponseInvalid)
	}
	return &PayoutResult{
		BatchID:       batchID,
		SenderBatchID: senderBatchID,
		Status:        strings.ToUpper(strings.TrimSpace(readString(parsed, "batch_header", "batch_status"))),
		Raw:           parsed,
	}, nil
}

func (c *Config) normalize() {
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.ClientSecret = strings.TrimSpace(c.ClientSecret)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultSandboxBaseURL
	}
	c.EmailSubject = strings.TrimSpace(c.EmailSubject)
	if c.EmailSubject == "" {
		c.EmailSubject = defaultEmailSubject
	}
}

func getAccessToken(ctx context.Context, cfg *Config) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/v1/oauth2/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request failed", ErrAuthFailed)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request token failed", ErrAuthFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response failed", ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token status %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode token response failed", ErrAuthFailed)
	}
	token := strings.TrimSpace(readString(parsed, "access_token"))
	if token == "" {
		return "", fmt.Errorf("%w: access_token is empty", ErrAuthFailed)
	}
	return token, nil
}

func doJSONRequest(ctx context.Context, cfg *Config, method, endpoint, token string, body []byte) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cfg.BaseURL, "/")+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: http request failed", ErrRequestFailed)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	return respBody, resp.StatusCode, nil
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

func readString(raw map[string]interface{}, path ...string) string {
	if raw == nil {
		return ""
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return ""
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = next[seg]
	}
	if current == nil {
		return ""
	}
	if str, ok := current.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", current)
}
