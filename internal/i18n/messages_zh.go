package i18n

var zhCN = map[string]string{
	"error.bad_request":            "请求参数错误",
	"error.unauthorized":           "请先登录",
	"error.forbidden":              "无权执行该操作",
	"error.not_found":              "资源不存在",
	"error.internal":               "服务器内部错误",
	"error.token_invalid":          "登录状态无效",
	"error.token_revoked":          "登录已失效",
	"error.user_id_invalid":        "用户ID无效",
	"error.admin_id_invalid":       "管理员ID无效",
	"error.validation_failed":      "参数校验失败",
	"error.jwt_secret_missing":     "认证配置缺失",
	"error.auth_header_missing":    "缺少认证信息",
	"error.auth_header_invalid":    "认证信息格式错误",
	"error.rate_limit_unavailable": "限流服务不可用",
	"error.rate_limited":           "尝试次数过多，请 %d 秒后再试",

	"validation.required": "%s 不能为空",
	"validation.min":      "%s 不能小于 %s",
	"validation.max":      "%s 不能大于 %s",
	"validation.gt":       "%s 必须大于 %s",
	"validation.oneof":    "%s 必须是以下之一：%s",
	"validation.email":    "%s 必须是有效邮箱",
	"validation.invalid":  "%s 格式不正确",

	"error.invalid_credentials":      "账号或密码错误",
	"error.invalid_password":         "原密码错误",
	"error.email_invalid":            "邮箱格式不正确",
	"error.email_exists":             "邮箱已注册",
	"error.user_disabled":            "账号已被禁用",
	"error.login_failed":             "登录失败",
	"error.register_failed":          "注册失败",
	"error.password_change_failed":   "修改密码失败",
	"error.password_max_length":      "密码长度不能超过 %d 字节",
	"error.password_min_length":      "密码长度不能少于 %d 位",
	"error.password_require_upper":   "密码需包含大写字母",
	"error.password_require_lower":   "密码需包含小写字母",
	"error.password_require_number":  "密码需包含数字",
	"error.password_require_special": "密码需包含特殊字符",
	"error.admin_not_found":          "管理员不存在",
	"error.user_not_found":           "用户不存在",

	"error.affiliate_code_required":   "推广码不能为空",
	"error.affiliate_not_found":       "推广码不存在",
	"error.affiliate_code_inactive":   "推广码未启用",
	"error.affiliate_inactive":        "推广账户未启用",
	"error.affiliate_disabled":        "推广计划已关闭",
	"error.affiliate_status_invalid":  "推广账户状态无效",
	"error.affiliate_rate_invalid":    "佣金比例必须在 0 到 1 之间",
	"error.affiliate_tier_invalid":    "等级不能小于 1",
	"error.affiliate_config_invalid":  "推广配置无效",
	"error.affiliate_code_exhausted":  "推广码生成失败，请重试",
	"error.affiliate_join_failed":     "开通推广账户失败",
	"error.affiliate_fetch_failed":    "获取推广数据失败",
	"error.affiliate_update_failed":   "更新推广账户失败",
	"error.affiliate_account_missing": "尚未加入推广计划",

	"error.already_referred":          "该用户已有推荐关系",
	"error.self_referral":             "不能推荐自己",
	"error.referral_not_found":        "推荐记录不存在",
	"error.referral_state_invalid":    "推荐记录状态不允许该操作",
	"error.conversion_amount_invalid": "转化金额无效",
	"error.conversion_ref_required":   "转化交易号不能为空",
	"error.refund_type_invalid":       "类型必须为 refund 或 chargeback",
	"error.referral_token_invalid":    "推荐令牌无效",
	"error.referral_token_expired":    "推荐令牌已过期",
	"error.referral_track_failed":     "记录推荐关系失败",
	"error.referral_fetch_failed":     "获取推荐记录失败",
	"error.convert_failed":            "推荐转化失败",
	"error.refund_failed":             "处理退款失败",

	"error.payout_not_found":        "提现单不存在",
	"error.payout_state_invalid":    "提现单状态不允许该操作",
	"error.payout_in_flight":        "提现单已提交渠道，请核对渠道结果",
	"error.insufficient_balance":    "余额不足",
	"error.payout_amount_invalid":   "提现金额必须大于 0",
	"error.payout_below_minimum":    "提现金额低于最低限额",
	"error.payout_method_invalid":   "不支持的提现方式",
	"error.payout_account_required": "收款账号不能为空",
	"error.reject_reason_required":  "驳回原因不能为空",
	"error.payout_rail_unavailable": "该提现方式未配置",
	"error.payout_provider_failed":  "打款渠道处理失败：%s",
	"error.payout_request_failed":   "申请提现失败",
	"error.payout_process_failed":   "处理提现失败",
	"error.payout_fetch_failed":     "获取提现记录失败",

	"error.webhook_signature_invalid": "回调签名无效",
	"error.webhook_payload_invalid":   "回调内容无效",
	"error.webhook_failed":            "回调处理失败",

	"error.settings_fetch_failed": "获取配置失败",
	"error.settings_save_failed":  "保存配置失败",
	"error.audit_fetch_failed":    "获取审计日志失败",
	"error.role_invalid":          "角色无效",
	"error.authz_failed":          "更新权限失败",
}
