package models

import (
	"encoding/json"
	"testing"
)

func TestFormatMinorAmount(t *testing.T) {
	cases := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{name: "negative usd", amount: -500, currency: "USD", want: "-$5.00"},
		{name: "positive eur", amount: 12345, currency: "eur", want: "€123.45"},
		{name: "zero decimal", amount: -300, currency: "JPY", want: "-¥300"},
		{name: "unknown code", amount: 199, currency: "CHF", want: "1.99 CHF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatMinorAmount(tc.amount, tc.currency); got != tc.want {
				t.Fatalf("format want %s got %s", tc.want, got)
			}
		})
	}
}

func TestRateApplyToRoundsHalfUp(t *testing.T) {
	rate := NewRateFromFloat(0.2)
	if got := rate.ApplyTo(2500); got != 500 {
		t.Fatalf("commission want 500 got %d", got)
	}
	rate = NewRateFromFloat(0.15)
	if got := rate.ApplyTo(1003); got != 150 {
		t.Fatalf("commission want 150 got %d", got)
	}
	rate = NewRateFromFloat(0.25)
	if got := rate.ApplyTo(2); got != 1 {
		t.Fatalf("commission want 1 got %d", got)
	}
}

func TestRateJSONIsNumber(t *testing.T) {
	body, err := json.Marshal(struct {
		Rate Rate `json:"commissionRate"`
	}{Rate: NewRateFromFloat(0.2)})
	if err != nil {
		t.Fatalf("marshal rate failed: %v", err)
	}
	if string(body) != `{"commissionRate":0.2}` {
		t.Fatalf("unexpected rate json: %s", body)
	}

	var parsed Rate
	if err := json.Unmarshal([]byte(`"0.35"`), &parsed); err != nil {
		t.Fatalf("unmarshal string rate failed: %v", err)
	}
	if parsed.String() != "0.35" {
		t.Fatalf("parsed rate want 0.35 got %s", parsed.String())
	}
	if !parsed.Valid() {
		t.Fatalf("0.35 should be a valid rate")
	}
	if NewRateFromFloat(1.5).Valid() {
		t.Fatalf("1.5 should be an invalid rate")
	}
}
