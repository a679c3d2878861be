package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBootstrapBuiltinRolesIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:affiliate_manager", "role:finance", "role:readonly_auditor"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles want %v got %v", want, roles)
	}
}

func TestFinanceRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.SetAdminRoles(1, []string{RoleFinance}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	cases := []struct {
		obj   string
		act   string
		allow bool
	}{
		{obj: "/api/v1/affiliate/payout/admin/process", act: "POST", allow: true},
		{obj: "/api/v1/affiliate/payout/admin/pending", act: "GET", allow: true},
		{obj: "/api/v1/affiliate/commission/refund", act: "post", allow: true},
		{obj: "/api/v1/admin/payouts/:id/approve", act: "POST", allow: true},
		{obj: "/api/v1/admin/affiliates/:id/status", act: "PATCH", allow: false},
		{obj: "/api/v1/admin/audit-logs", act: "GET", allow: true},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceAdmin(1, tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if allow != tc.allow {
			t.Fatalf("enforce %s %s want %v got %v", tc.act, tc.obj, tc.allow, allow)
		}
	}
}

func TestReadonlyAuditorCannotWrite(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.SetAdminRoles(2, []string{RoleReadonlyAuditor}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	allow, err := svc.EnforceAdmin(2, "/api/v1/affiliate/payout/admin/reject", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("auditor must not reject payouts")
	}
	allow, err = svc.EnforceAdmin(2, "/api/v1/admin/referrals", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !allow {
		t.Fatalf("auditor should read referrals")
	}
}

func TestSetAdminRolesOverrideAndValidation(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.SetAdminRoles(3, []string{RoleFinance}); err != nil {
		t.Fatalf("set finance failed: %v", err)
	}
	roles, err := svc.SetAdminRoles(3, []string{RoleAffiliateManager})
	if err != nil {
		t.Fatalf("set manager failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:affiliate_manager" {
		t.Fatalf("roles want [role:affiliate_manager] got %v", roles)
	}
	allow, err := svc.EnforceAdmin(3, "/affiliate/payout/admin/process", "POST")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("expected finance permission removed")
	}

	if _, err := svc.SetAdminRoles(3, []string{"root"}); !errors.Is(err, ErrRoleUnknown) {
		t.Fatalf("expected ErrRoleUnknown, got %v", err)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/payouts/:id/approve", want: "/admin/payouts/:id/approve"},
		{in: "/affiliate/payout/admin/pending", want: "/affiliate/payout/admin/pending"},
		{in: "admin/referrals", want: "/admin/referrals"},
		{in: "/api/v1", want: "/"},
		{in: "/api/v1x/admin", want: "/api/v1x/admin"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		if got := NormalizeObject(item.in); got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestSetAdminRolesDeduplicatesAndClears(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	roles, err := svc.SetAdminRoles(4, []string{RoleFinance, "role:finance", " finance "})
	if err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:finance" {
		t.Fatalf("expected single finance role, got %v", roles)
	}
	roles, err = svc.SetAdminRoles(4, nil)
	if err != nil {
		t.Fatalf("clear roles failed: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("expected no roles, got %v", roles)
	}
	if _, err := svc.SetAdminRoles(0, []string{RoleFinance}); !errors.Is(err, ErrAdminID) {
		t.Fatalf("expected ErrAdminID, got %v", err)
	}
	var nilSvc *Service
	if _, err := nilSvc.EnforceAdmin(1, "/admin/me", "GET"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGetRolePoliciesExcludesInherited(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	policies, err := svc.GetRolePolicies(RoleFinance)
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	for _, policy := range policies {
		if policy.Subject != "role:finance" {
			t.Fatalf("unexpected subject: %+v", policy)
		}
		if policy.Action == "GET" {
			t.Fatalf("inherited auditor policy leaked: %+v", policy)
		}
	}
	if _, err := svc.GetRolePolicies("  "); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("expected ErrRoleRequired, got %v", err)
	}
}
