package constants

// 推广账户状态常量
const (
	AffiliateStatusActive    = "ACTIVE"
	AffiliateStatusSuspended = "SUSPENDED"
	AffiliateStatusInactive  = "INACTIVE"
)

// 推荐记录状态常量
const (
	ReferralStatusPending   = "PENDING"
	ReferralStatusConverted = "CONVERTED"
	ReferralStatusCanceled  = "CANCELED"
)

// 佣金冲正类型
const (
	CommissionAdjustRefund     = "refund"
	CommissionAdjustChargeback = "chargeback"
)

// 提现状态常量
const (
	PayoutStatusPending  = "PENDING"
	PayoutStatusApproved = "APPROVED"
	PayoutStatusPaid     = "PAID"
	PayoutStatusRejected = "REJECTED"
	PayoutStatusFailed   = "FAILED"
)

// 提现渠道常量
const (
	PayoutMethodPaypal       = "PAYPAL"
	PayoutMethodStripe       = "STRIPE"
	PayoutMethodBankTransfer = "BANK_TRANSFER"
)

// 佣金台账分录类型
const (
	LedgerEntryCommissionCredit   = "commission_credit"
	LedgerEntryCommissionReversal = "commission_reversal"
	LedgerEntryPayoutHold         = "payout_hold"
	LedgerEntryPayoutRelease      = "payout_release"
)

// 审计动作常量
const (
	AuditActionCommissionRefund   = "commission_refund"
	AuditActionCommissionConvert  = "commission_convert"
	AuditActionPayoutApprove      = "payout_approve"
	AuditActionPayoutProcess      = "payout_process"
	AuditActionPayoutReject       = "payout_reject"
	AuditActionAffiliateStatus    = "affiliate_status"
	AuditActionAffiliateRate      = "affiliate_rate"
	AuditActionAffiliateSetting   = "affiliate_setting"
	AuditActionAdminRolesAssigned = "admin_roles_assigned"
)

// 审计对象类型
const (
	AuditTargetAffiliate = "affiliate"
	AuditTargetReferral  = "referral"
	AuditTargetPayout    = "payout"
	AuditTargetSetting   = "setting"
	AuditTargetAdmin     = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 异步队列与任务
const (
	QueueDefault                = "default"
	QueueCritical               = "critical"
	TaskReferralConvert         = "affiliate:referral_convert"
	TaskAffiliateBalanceRefresh = "affiliate:balance_refresh"
)

// 系统设置键
const (
	SettingKeyAffiliateConfig = "affiliate_config"
)

// 推荐来源
const (
	ReferralSourceLink   = "link"
	ReferralSourceSignup = "signup"
	ReferralSourceManual = "manual"
)

// 默认币种
const DefaultCurrency = "USD"
