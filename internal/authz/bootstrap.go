package authz

import "fmt"

// 预置角色
const (
	RoleReadonlyAuditor  = "readonly_auditor"
	RoleFinance          = "finance"
	RoleAffiliateManager = "affiliate_manager"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 推广后台角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleReadonlyAuditor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/affiliate/payout/admin/*", Action: "GET"},
			},
		},
		{
			Role:     RoleFinance,
			Inherits: []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/affiliate/commission/refund", Action: "POST"},
				{Object: "/affiliate/commission/convert", Action: "POST"},
				{Object: "/affiliate/payout/admin/process", Action: "POST"},
				{Object: "/affiliate/payout/admin/reject", Action: "POST"},
				{Object: "/admin/payouts/:id/approve", Action: "POST"},
			},
		},
		{
			Role:     RoleAffiliateManager,
			Inherits: []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/affiliates/:id/status", Action: "PATCH"},
				{Object: "/admin/affiliates/:id/commission", Action: "PATCH"},
				{Object: "/admin/settings/affiliate", Action: "PUT"},
			},
		},
	}
}

// IsBuiltinRole 判断是否为预置角色
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if rolePrefix+seed.Role == normalized {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 写入预置角色、继承关系与策略；已存在的规则跳过，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	var groupings, policies [][]string
	for _, seed := range BuiltinRoleSeeds() {
		role := rolePrefix + seed.Role
		groupings = append(groupings, []string{role, roleAnchor})
		for _, parent := range seed.Inherits {
			groupings = append(groupings, []string{role, rolePrefix + parent})
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy for %s has no action", seed.Role)
			}
			policies = append(policies, []string{role, NormalizeObject(policy.Object), action})
		}
	}
	for _, rule := range groupings {
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", rule[0], rule[1]); err != nil {
			return fmt.Errorf("seed role grouping %v: %w", rule, err)
		}
	}
	for _, rule := range policies {
		if _, err := s.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return fmt.Errorf("seed role policy %v: %w", rule, err)
		}
	}
	return nil
}
