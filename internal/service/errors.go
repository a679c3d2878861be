package service

import "errors"

// 通用错误
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserDisabled       = errors.New("user disabled")
	ErrQueueUnavailable   = errors.New("task queue unavailable")
)

// 推广账户
var (
	ErrAffiliateNotFound      = errors.New("affiliate not found")
	ErrAffiliateInactive      = errors.New("affiliate is not active")
	ErrAffiliateDisabled      = errors.New("affiliate program disabled")
	ErrAffiliateStatusInvalid = errors.New("affiliate status invalid")
	ErrAffiliateRateInvalid   = errors.New("commission rate must be between 0 and 1")
	ErrAffiliateTierInvalid   = errors.New("tier must be at least 1")
	ErrAffiliateConfigInvalid = errors.New("affiliate config invalid")
	ErrAffiliateCodeExhausted = errors.New("affiliate code generation exhausted")
)

// 推荐与佣金
var (
	ErrAlreadyReferred         = errors.New("user already referred")
	ErrSelfReferral            = errors.New("self referral not allowed")
	ErrReferralNotFound        = errors.New("referral not found")
	ErrReferralStateInvalid    = errors.New("referral state does not allow this action")
	ErrConversionAmountInvalid = errors.New("conversion amount must be positive")
	ErrConversionRefRequired   = errors.New("conversion reference required")
	ErrRefundTypeInvalid       = errors.New("refund type must be refund or chargeback")
	ErrReferralTokenInvalid    = errors.New("referral token invalid")
	ErrReferralTokenExpired    = errors.New("referral token expired")
)

// 提现
var (
	ErrPayoutNotFound        = errors.New("payout not found")
	ErrInvalidState          = errors.New("payout state does not allow this action")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrPayoutAmountInvalid   = errors.New("payout amount must be positive")
	ErrPayoutBelowMinimum    = errors.New("payout amount below minimum")
	ErrPayoutMethodInvalid   = errors.New("payout method not supported")
	ErrPayoutAccountRequired = errors.New("payout account required")
	ErrRejectReasonRequired  = errors.New("reject reason required")
	ErrPayoutRailUnavailable = errors.New("payout rail not configured")
	ErrPayoutProviderFailed  = errors.New("payout provider failed")
	ErrPayoutInFlight        = errors.New("payout already submitted to provider")
)

// Webhook
var (
	ErrWebhookSignatureInvalid = errors.New("webhook signature invalid")
	ErrWebhookPayloadInvalid   = errors.New("webhook payload invalid")
)
