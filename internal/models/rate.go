package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const rateScale = 4

// Rate 佣金比例（0-1，保留 4 位小数），JSON 输出为数字
type Rate struct {
	decimal.Decimal
}

// NewRate 从 decimal 创建比例
func NewRate(value decimal.Decimal) Rate {
	return Rate{Decimal: value.Round(rateScale)}
}

// NewRateFromFloat 从浮点数创建比例
func NewRateFromFloat(value float64) Rate {
	return NewRate(decimal.NewFromFloat(value))
}

// ParseRate 解析字符串比例
func ParseRate(raw string) (Rate, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Rate{}, err
	}
	return NewRate(d), nil
}

// Valid 判断比例是否在 [0, 1] 区间
func (r Rate) Valid() bool {
	return !r.Decimal.IsNegative() && r.Decimal.LessThanOrEqual(decimal.NewFromInt(1))
}

// MarshalJSON 输出为 JSON 数字
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.Round(rateScale).String()), nil
}

// UnmarshalJSON 解析比例（字符串或数字）
func (r *Rate) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	r.Decimal = d.Round(rateScale)
	return nil
}

// Value 用于数据库写入
func (r Rate) Value() (driver.Value, error) {
	return r.Decimal.Round(rateScale).Value()
}

// Scan 用于数据库读取
func (r *Rate) Scan(value interface{}) error {
	if err := r.Decimal.Scan(value); err != nil {
		return err
	}
	r.Decimal = r.Decimal.Round(rateScale)
	return nil
}

// ApplyTo 按比例计算最小货币单位金额（四舍五入到整数）
func (r Rate) ApplyTo(minorAmount int64) int64 {
	return decimal.NewFromInt(minorAmount).Mul(r.Decimal).Round(0).IntPart()
}

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
}

var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
	"VND": {},
}

// CurrencyScale 返回币种的小数位数
func CurrencyScale(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return 0
	}
	return 2
}

// MinorToDecimal 最小货币单位转为主单位金额
func MinorToDecimal(amount int64, currency string) decimal.Decimal {
	return decimal.NewFromInt(amount).Shift(-CurrencyScale(currency))
}

// FormatMinorAmount 格式化金额，例如 -500 USD -> "-$5.00"
func FormatMinorAmount(amount int64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	scale := CurrencyScale(code)
	abs := amount
	sign := ""
	if amount < 0 {
		abs = -amount
		sign = "-"
	}
	value := MinorToDecimal(abs, code).StringFixed(scale)
	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + value
	}
	return fmt.Sprintf("%s%s %s", sign, value, code)
}
