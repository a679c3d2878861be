package service

import (
	"reflect"
	"testing"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
)

func TestNormalizeSettingValueByKeyAffiliateConfig(t *testing.T) {
	got := normalizeSettingValueByKey(constants.SettingKeyAffiliateConfig, map[string]interface{}{
		"enabled":                 "yes",
		"default_commission_rate": "1.5",
		"default_tier":            float64(0),
		"min_payout_amount":       "2500",
		"payout_methods":          []interface{}{" paypal ", "CRYPTO", "PAYPAL", "bank_transfer"},
		"unknown_field":           "dropped",
	})

	if got["enabled"] != true {
		t.Fatalf("enabled should parse truthy text, got %v", got["enabled"])
	}
	if got["default_commission_rate"] != "1" {
		t.Fatalf("rate should clamp to 1, got %v", got["default_commission_rate"])
	}
	if got["default_tier"] != 1 {
		t.Fatalf("tier should clamp to 1, got %v", got["default_tier"])
	}
	if got["min_payout_amount"] != int64(2500) {
		t.Fatalf("min payout should parse numeric text, got %v", got["min_payout_amount"])
	}
	wantMethods := []string{constants.PayoutMethodPaypal, constants.PayoutMethodBankTransfer}
	if !reflect.DeepEqual(got["payout_methods"], wantMethods) {
		t.Fatalf("payout methods want %v got %v", wantMethods, got["payout_methods"])
	}
	if _, ok := got["unknown_field"]; ok {
		t.Fatalf("unknown affiliate fields should be dropped")
	}
}

func TestNormalizeSettingValueByKeyPassThrough(t *testing.T) {
	got := normalizeSettingValueByKey("site_banner", map[string]interface{}{"text": "hello"})
	if got["text"] != "hello" {
		t.Fatalf("unknown keys should be stored as-is, got %+v", got)
	}
	if empty := normalizeSettingValueByKey("site_banner", nil); empty == nil || len(empty) != 0 {
		t.Fatalf("nil value should become empty json, got %+v", empty)
	}
}

func TestParseSettingBool(t *testing.T) {
	cases := map[interface{}]bool{
		true:       true,
		"on":       true,
		" TRUE ":   true,
		"0":        false,
		float64(1): true,
		int64(0):   false,
		nil:        false,
	}
	for input, want := range cases {
		if got := parseSettingBool(input); got != want {
			t.Fatalf("parseSettingBool(%v) want %v got %v", input, want, got)
		}
	}
}
