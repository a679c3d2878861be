package service

import (
	"fmt"
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"github.com/shopspring/decimal"
)

const (
	affiliateTierMax          = 100
	affiliateDefaultRateValue = 0.2
)

var supportedPayoutMethods = []string{
	constants.PayoutMethodPaypal,
	constants.PayoutMethodStripe,
	constants.PayoutMethodBankTransfer,
}

// AffiliateSetting 推广业务配置
type AffiliateSetting struct {
	Enabled               bool        `json:"enabled"`
	DefaultCommissionRate models.Rate `json:"defaultCommissionRate"`
	DefaultTier           int         `json:"defaultTier"`
	MinPayoutAmount       int64       `json:"minPayoutAmount"`
	PayoutMethods         []string    `json:"payoutMethods"`
}

// AffiliateDefaultSetting 默认推广配置
func AffiliateDefaultSetting() AffiliateSetting {
	return NormalizeAffiliateSetting(AffiliateSetting{
		Enabled:               true,
		DefaultCommissionRate: models.NewRateFromFloat(affiliateDefaultRateValue),
		DefaultTier:           1,
		MinPayoutAmount:       0,
		PayoutMethods:         supportedPayoutMethods,
	})
}

// NormalizeAffiliateSetting 归一化推广配置
func NormalizeAffiliateSetting(setting AffiliateSetting) AffiliateSetting {
	setting.DefaultCommissionRate = models.NewRate(setting.DefaultCommissionRate.Decimal)
	if setting.DefaultCommissionRate.IsNegative() {
		setting.DefaultCommissionRate = models.NewRate(decimal.Zero)
	}
	if setting.DefaultCommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		setting.DefaultCommissionRate = models.NewRate(decimal.NewFromInt(1))
	}
	if setting.DefaultTier < 1 {
		setting.DefaultTier = 1
	}
	if setting.DefaultTier > affiliateTierMax {
		setting.DefaultTier = affiliateTierMax
	}
	if setting.MinPayoutAmount < 0 {
		setting.MinPayoutAmount = 0
	}
	setting.PayoutMethods = normalizePayoutMethods(setting.PayoutMethods)
	return setting
}

// ValidateAffiliateSetting 校验管理端提交的推广配置；越界值直接拒绝，只有读取存量配置时才做钳制
func ValidateAffiliateSetting(setting AffiliateSetting) error {
	if !setting.DefaultCommissionRate.Valid() {
		return fmt.Errorf("%w: default commission rate must be between 0 and 1", ErrAffiliateConfigInvalid)
	}
	if setting.DefaultTier < 1 || setting.DefaultTier > affiliateTierMax {
		return fmt.Errorf("%w: default tier must be between 1 and %d", ErrAffiliateConfigInvalid, affiliateTierMax)
	}
	if setting.MinPayoutAmount < 0 {
		return fmt.Errorf("%w: min payout amount must not be negative", ErrAffiliateConfigInvalid)
	}
	return nil
}

// PayoutMethodEnabled 判断提现渠道是否开放
func (s AffiliateSetting) PayoutMethodEnabled(method string) bool {
	method = strings.ToUpper(strings.TrimSpace(method))
	for _, item := range s.PayoutMethods {
		if item == method {
			return true
		}
	}
	return false
}

// AffiliateSettingToMap 转换为 settings 存储结构
func AffiliateSettingToMap(setting AffiliateSetting) map[string]interface{} {
	normalized := NormalizeAffiliateSetting(setting)
	return map[string]interface{}{
		"enabled":                 normalized.Enabled,
		"default_commission_rate": normalized.DefaultCommissionRate.String(),
		"default_tier":            normalized.DefaultTier,
		"min_payout_amount":       normalized.MinPayoutAmount,
		"payout_methods":          append([]string(nil), normalized.PayoutMethods...),
	}
}

func affiliateSettingFromJSON(raw models.JSON, fallback AffiliateSetting) AffiliateSetting {
	result := fallback

	if enabledRaw, ok := raw["enabled"]; ok {
		result.Enabled = parseSettingBool(enabledRaw)
	}
	if rateRaw, ok := raw["default_commission_rate"]; ok {
		if text, isText := rateRaw.(string); isText {
			if parsed, err := decimal.NewFromString(strings.TrimSpace(text)); err == nil {
				result.DefaultCommissionRate = models.NewRate(parsed)
			}
		} else if parsed, err := parseSettingFloat(rateRaw); err == nil {
			result.DefaultCommissionRate = models.NewRateFromFloat(parsed)
		}
	}
	if tierRaw, ok := raw["default_tier"]; ok {
		if parsed, err := parseSettingInt(tierRaw); err == nil {
			result.DefaultTier = parsed
		}
	}
	if minRaw, ok := raw["min_payout_amount"]; ok {
		if parsed, err := parseSettingInt64(minRaw); err == nil {
			result.MinPayoutAmount = parsed
		}
	}
	if methodsRaw, ok := raw["payout_methods"]; ok {
		result.PayoutMethods = normalizeSettingStringList(methodsRaw)
	}
	return NormalizeAffiliateSetting(result)
}

func normalizeAffiliateSettingMap(value map[string]interface{}) models.JSON {
	setting := affiliateSettingFromJSON(models.JSON(value), AffiliateDefaultSetting())
	return models.JSON(AffiliateSettingToMap(setting))
}

func normalizePayoutMethods(methods []string) []string {
	result := make([]string, 0, len(supportedPayoutMethods))
	seen := make(map[string]struct{}, len(methods))
	for _, raw := range methods {
		method := strings.ToUpper(strings.TrimSpace(raw))
		if !isSupportedPayoutMethod(method) {
			continue
		}
		if _, ok := seen[method]; ok {
			continue
		}
		seen[method] = struct{}{}
		result = append(result, method)
	}
	return result
}

func isSupportedPayoutMethod(method string) bool {
	for _, item := range supportedPayoutMethods {
		if item == method {
			return true
		}
	}
	return false
}

// GetAffiliateSetting 获取推广配置（settings 为空时回退默认）
func (s *SettingService) GetAffiliateSetting() (AffiliateSetting, error) {
	fallback := AffiliateDefaultSetting()
	if s == nil {
		return fallback, nil
	}
	value, err := s.GetByKey(constants.SettingKeyAffiliateConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return affiliateSettingFromJSON(value, fallback), nil
}

// UpdateAffiliateSetting 更新推广配置
func (s *SettingService) UpdateAffiliateSetting(setting AffiliateSetting) (AffiliateSetting, error) {
	if err := ValidateAffiliateSetting(setting); err != nil {
		return AffiliateDefaultSetting(), err
	}
	normalized := NormalizeAffiliateSetting(setting)
	if _, err := s.Update(constants.SettingKeyAffiliateConfig, AffiliateSettingToMap(normalized)); err != nil {
		return AffiliateDefaultSetting(), err
	}
	return normalized, nil
}
