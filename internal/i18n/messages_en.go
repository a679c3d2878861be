package i18n

var enUS = map[string]string{
	"error.bad_request":            "Invalid request",
	"error.unauthorized":           "Please sign in first",
	"error.forbidden":              "You do not have permission to perform this action",
	"error.not_found":              "Resource not found",
	"error.internal":               "Internal server error",
	"error.token_invalid":          "Session is invalid",
	"error.token_revoked":          "Session has been revoked",
	"error.user_id_invalid":        "Invalid user id",
	"error.admin_id_invalid":       "Invalid admin id",
	"error.validation_failed":      "Request validation failed",
	"error.jwt_secret_missing":     "Authentication is not configured",
	"error.auth_header_missing":    "Authorization header is missing",
	"error.auth_header_invalid":    "Authorization header is malformed",
	"error.rate_limit_unavailable": "Rate limiter is unavailable",
	"error.rate_limited":           "Too many attempts, retry in %d seconds",

	"validation.required": "%s is required",
	"validation.min":      "%s must be at least %s",
	"validation.max":      "%s must be at most %s",
	"validation.gt":       "%s must be greater than %s",
	"validation.oneof":    "%s must be one of: %s",
	"validation.email":    "%s must be a valid email",
	"validation.invalid":  "%s is invalid",

	"error.invalid_credentials":      "Incorrect email/username or password",
	"error.invalid_password":         "Current password is incorrect",
	"error.email_invalid":            "Invalid email address",
	"error.email_exists":             "Email is already registered",
	"error.user_disabled":            "Account is disabled",
	"error.login_failed":             "Sign in failed",
	"error.register_failed":          "Registration failed",
	"error.password_change_failed":   "Failed to change password",
	"error.password_max_length":      "Password must be at most %d bytes",
	"error.password_min_length":      "Password must be at least %d characters",
	"error.password_require_upper":   "Password must contain an uppercase letter",
	"error.password_require_lower":   "Password must contain a lowercase letter",
	"error.password_require_number":  "Password must contain a number",
	"error.password_require_special": "Password must contain a special character",
	"error.admin_not_found":          "Admin not found",
	"error.user_not_found":           "User not found",

	"error.affiliate_code_required":   "Affiliate code is required",
	"error.affiliate_not_found":       "Affiliate code not found",
	"error.affiliate_code_inactive":   "Affiliate code is not active",
	"error.affiliate_inactive":        "Affiliate account is not active",
	"error.affiliate_disabled":        "Affiliate program is disabled",
	"error.affiliate_status_invalid":  "Invalid affiliate status",
	"error.affiliate_rate_invalid":    "Commission rate must be between 0 and 1",
	"error.affiliate_tier_invalid":    "Tier must be at least 1",
	"error.affiliate_config_invalid":  "Invalid affiliate settings",
	"error.affiliate_code_exhausted":  "Could not generate a unique affiliate code, please retry",
	"error.affiliate_join_failed":     "Failed to open affiliate account",
	"error.affiliate_fetch_failed":    "Failed to load affiliate data",
	"error.affiliate_update_failed":   "Failed to update affiliate",
	"error.affiliate_account_missing": "You have not joined the affiliate program",

	"error.already_referred":          "User has already been referred",
	"error.self_referral":             "You cannot refer yourself",
	"error.referral_not_found":        "Referral not found",
	"error.referral_state_invalid":    "Referral status does not allow this action",
	"error.conversion_amount_invalid": "Conversion amount is invalid",
	"error.conversion_ref_required":   "Conversion reference is required",
	"error.refund_type_invalid":       "Type must be refund or chargeback",
	"error.referral_token_invalid":    "Referral token is invalid",
	"error.referral_token_expired":    "Referral token has expired",
	"error.referral_track_failed":     "Failed to track referral",
	"error.referral_fetch_failed":     "Failed to load referrals",
	"error.convert_failed":            "Failed to convert referral",
	"error.refund_failed":             "Failed to process refund",

	"error.payout_not_found":        "Payout not found",
	"error.payout_state_invalid":    "Payout status does not allow this action",
	"error.payout_in_flight":        "Payout has already been submitted to the provider",
	"error.insufficient_balance":    "Insufficient balance",
	"error.payout_amount_invalid":   "Payout amount must be positive",
	"error.payout_below_minimum":    "Payout amount is below the minimum",
	"error.payout_method_invalid":   "Payout method is not supported",
	"error.payout_account_required": "Payout account is required",
	"error.reject_reason_required":  "Reject reason is required",
	"error.payout_rail_unavailable": "Payout method is not configured",
	"error.payout_provider_failed":  "Payout provider rejected the transfer: %s",
	"error.payout_request_failed":   "Failed to request payout",
	"error.payout_process_failed":   "Failed to process payout",
	"error.payout_fetch_failed":     "Failed to load payouts",

	"error.webhook_signature_invalid": "Invalid webhook signature",
	"error.webhook_payload_invalid":   "Invalid webhook payload",
	"error.webhook_failed":            "Failed to handle webhook",

	"error.settings_fetch_failed": "Failed to load settings",
	"error.settings_save_failed":  "Failed to save settings",
	"error.audit_fetch_failed":    "Failed to load audit logs",
	"error.role_invalid":          "Invalid role",
	"error.authz_failed":          "Failed to update permissions",
}
