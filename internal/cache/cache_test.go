package cache

import (
	"context"
	"testing"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
)

func TestBuildKeyUsesPrefix(t *testing.T) {
	SetClient(nil, "test")
	if got := BuildKey(affiliateCodeKey(" abc123 ")); got != "test:affiliate:code:ABC123" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := BuildKey(""); got != "test" {
		t.Fatalf("unexpected empty key: %s", got)
	}
	SetClient(nil, "")
	if got := BuildKey(affiliateBalanceKey(7)); got != "aff:affiliate:balance:7" {
		t.Fatalf("unexpected default prefix key: %s", got)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	SetClient(nil, "")
	ctx := context.Background()
	if err := SetAffiliateCode(ctx, &AffiliateCodeSnapshot{Code: "ABC123"}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache failed: %v", err)
	}
	snapshot, hit, err := GetAffiliateCode(ctx, "ABC123")
	if err != nil || hit || snapshot != nil {
		t.Fatalf("expected miss on disabled cache, got %+v hit=%v err=%v", snapshot, hit, err)
	}
	if err := Del(ctx, "a", "b"); err != nil {
		t.Fatalf("del on disabled cache failed: %v", err)
	}
}

func TestTokenStateAccepts(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name    string
		state   TokenState
		version uint64
		issued  time.Time
		want    bool
	}{
		{name: "no invalidation", state: TokenState{TokenVersion: 2}, version: 2, issued: issued, want: true},
		{name: "version mismatch", state: TokenState{TokenVersion: 3}, version: 2, issued: issued, want: false},
		{name: "issued before cutoff", state: TokenState{TokenVersion: 2, TokenInvalidBefore: issued.Unix() + 1}, version: 2, issued: issued, want: false},
		{name: "issued at cutoff", state: TokenState{TokenVersion: 2, TokenInvalidBefore: issued.Unix()}, version: 2, issued: issued, want: true},
		{name: "missing issued at", state: TokenState{TokenVersion: 2, TokenInvalidBefore: 1}, version: 2, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Accepts(tt.version, tt.issued); got != tt.want {
				t.Fatalf("Accepts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildAuthStates(t *testing.T) {
	cutoff := time.Unix(1_700_000_100, 0)
	user := BuildUserAuthState(&models.User{ID: 9, Status: "ACTIVE", TokenVersion: 4, TokenInvalidBefore: &cutoff})
	if user.UserID != 9 || user.TokenVersion != 4 || user.TokenInvalidBefore != cutoff.Unix() {
		t.Fatalf("unexpected user state: %+v", user)
	}
	if !user.Active("active") {
		t.Fatalf("status comparison should ignore case")
	}
	if (&UserAuthState{Status: "disabled"}).Active("active") {
		t.Fatalf("disabled user should not be active")
	}

	admin := BuildAdminAuthState(&models.Admin{ID: 3, Username: "finance", IsSuper: true})
	if admin.AdminID != 3 || !admin.IsSuper || admin.TokenInvalidBefore != 0 {
		t.Fatalf("unexpected admin state: %+v", admin)
	}
	if BuildUserAuthState(nil) != nil || BuildAdminAuthState(nil) != nil {
		t.Fatalf("nil model should build nil state")
	}
	if got := authStateKey("admin", 3); got != "auth:admin:3" {
		t.Fatalf("unexpected key: %s", got)
	}
}
