package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		header   string
		accept   string
		expected string
	}{
		{name: "default", expected: LocaleEN},
		{name: "x-locale wins", header: "zh-CN", accept: "en-US", expected: LocaleZH},
		{name: "accept language", accept: "zh-TW,zh;q=0.9", expected: LocaleZH},
		{name: "unsupported header falls back to accept", header: "fr-FR", accept: "en-GB", expected: LocaleEN},
		{name: "unsupported everywhere", header: "de", accept: "ja-JP", expected: LocaleEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("X-Locale", tt.header)
			}
			if tt.accept != "" {
				c.Request.Header.Set("Accept-Language", tt.accept)
			}
			if got := ResolveLocale(c); got != tt.expected {
				t.Fatalf("ResolveLocale()=%s want %s", got, tt.expected)
			}
		})
	}
}

func TestTranslateFallback(t *testing.T) {
	if got := T(LocaleZH, "error.unauthorized"); got != "请先登录" {
		t.Fatalf("unexpected zh message: %s", got)
	}
	if got := T("fr-FR", "error.unauthorized"); got != "Please sign in first" {
		t.Fatalf("expected english fallback, got %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("expected key fallback, got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range enUS {
		if _, ok := zhCN[key]; !ok {
			t.Fatalf("zh-CN catalog missing key %s", key)
		}
	}
	for key := range zhCN {
		if _, ok := enUS[key]; !ok {
			t.Fatalf("en-US catalog missing key %s", key)
		}
	}
}
