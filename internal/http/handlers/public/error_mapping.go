package public

import (
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/handlers/shared"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/http/response"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"
)

var affiliateAccountErrorRules = []shared.MappedError{
	{Target: service.ErrAffiliateNotFound, Code: response.CodeNotFound, Key: "error.affiliate_account_missing"},
	{Target: service.ErrAffiliateDisabled, Code: response.CodeForbidden, Key: "error.affiliate_disabled"},
	{Target: service.ErrAffiliateCodeExhausted, Code: response.CodeConflict, Key: "error.affiliate_code_exhausted"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}

var referralTrackErrorRules = []shared.MappedError{
	{Target: service.ErrAffiliateNotFound, Code: response.CodeNotFound, Key: "error.affiliate_not_found"},
	{Target: service.ErrAffiliateInactive, Code: response.CodeBadRequest, Key: "error.affiliate_code_inactive"},
	{Target: service.ErrAlreadyReferred, Code: response.CodeConflict, Key: "error.already_referred"},
	{Target: service.ErrSelfReferral, Code: response.CodeBadRequest, Key: "error.self_referral"},
	{Target: service.ErrReferralTokenInvalid, Code: response.CodeBadRequest, Key: "error.referral_token_invalid"},
	{Target: service.ErrReferralTokenExpired, Code: response.CodeBadRequest, Key: "error.referral_token_expired"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}

var payoutRequestErrorRules = []shared.MappedError{
	{Target: service.ErrAffiliateNotFound, Code: response.CodeNotFound, Key: "error.affiliate_account_missing"},
	{Target: service.ErrAffiliateInactive, Code: response.CodeForbidden, Key: "error.affiliate_inactive"},
	{Target: service.ErrInsufficientBalance, Code: response.CodeBadRequest, Key: "error.insufficient_balance"},
	{Target: service.ErrPayoutAmountInvalid, Code: response.CodeBadRequest, Key: "error.payout_amount_invalid"},
	{Target: service.ErrPayoutBelowMinimum, Code: response.CodeBadRequest, Key: "error.payout_below_minimum"},
	{Target: service.ErrPayoutMethodInvalid, Code: response.CodeBadRequest, Key: "error.payout_method_invalid"},
	{Target: service.ErrPayoutAccountRequired, Code: response.CodeBadRequest, Key: "error.payout_account_required"},
	{Target: service.ErrAffiliateDisabled, Code: response.CodeForbidden, Key: "error.affiliate_disabled"},
}

var userAuthErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.invalid_password"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}
