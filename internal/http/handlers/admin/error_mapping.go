package admin

import (
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/authz"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"
)

var adminAuthErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.invalid_password"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
}

var affiliateManageErrorRules = []shared.MappedError{
	{Target: service.ErrAffiliateNotFound, Code: response.CodeNotFound, Key: "error.affiliate_not_found"},
	{Target: service.ErrAffiliateStatusInvalid, Code: response.CodeBadRequest, Key: "error.affiliate_status_invalid"},
	{Target: service.ErrAffiliateRateInvalid, Code: response.CodeBadRequest, Key: "error.affiliate_rate_invalid"},
	{Target: service.ErrAffiliateTierInvalid, Code: response.CodeBadRequest, Key: "error.affiliate_tier_invalid"},
}

var commissionErrorRules = []shared.MappedError{
	{Target: service.ErrRefundTypeInvalid, Code: response.CodeBadRequest, Key: "error.refund_type_invalid"},
	{Target: service.ErrReferralNotFound, Code: response.CodeNotFound, Key: "error.referral_not_found"},
	{Target: service.ErrReferralStateInvalid, Code: response.CodeConflict, Key: "error.referral_state_invalid"},
	{Target: service.ErrConversionAmountInvalid, Code: response.CodeBadRequest, Key: "error.conversion_amount_invalid"},
	{Target: service.ErrConversionRefRequired, Code: response.CodeBadRequest, Key: "error.conversion_ref_required"},
	{Target: service.ErrAffiliateNotFound, Code: response.CodeNotFound, Key: "error.affiliate_not_found"},
}

var payoutAdminErrorRules = []shared.MappedError{
	{Target: service.ErrPayoutNotFound, Code: response.CodeNotFound, Key: "error.payout_not_found"},
	{Target: service.ErrInvalidState, Code: response.CodeBadRequest, Key: "error.payout_state_invalid"},
	{Target: service.ErrPayoutInFlight, Code: response.CodeConflict, Key: "error.payout_in_flight"},
	{Target: service.ErrRejectReasonRequired, Code: response.CodeBadRequest, Key: "error.reject_reason_required"},
	{Target: service.ErrPayoutRailUnavailable, Code: response.CodeBadRequest, Key: "error.payout_rail_unavailable"},
}

var settingErrorRules = []shared.MappedError{
	{Target: service.ErrAffiliateConfigInvalid, Code: response.CodeBadRequest, Key: "error.affiliate_config_invalid"},
}

var authzErrorRules = []shared.MappedError{
	{Target: authz.ErrRoleUnknown, Code: response.CodeBadRequest, Key: "error.role_invalid"},
}
