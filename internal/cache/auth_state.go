package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// TokenState 令牌吊销判断所需的最小信息，InvalidBefore 为 Unix 秒，0 表示未设置
type TokenState struct {
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

// Accepts 令牌版本一致且签发时间不早于失效点时返回 true
func (s TokenState) Accepts(version uint64, issuedAt time.Time) bool {
	if version != s.TokenVersion {
		return false
	}
	if s.TokenInvalidBefore <= 0 {
		return true
	}
	if issuedAt.IsZero() {
		return false
	}
	return issuedAt.Unix() >= s.TokenInvalidBefore
}

func newTokenState(version uint64, invalidBefore *time.Time) TokenState {
	state := TokenState{TokenVersion: version, UpdatedAt: time.Now().Unix()}
	if invalidBefore != nil {
		state.TokenInvalidBefore = invalidBefore.Unix()
	}
	return state
}

// UserAuthState 推广用户鉴权快照
type UserAuthState struct {
	TokenState
	UserID uint   `json:"user_id"`
	Status string `json:"status"`
}

// Active 用户是否可用
func (s *UserAuthState) Active(activeStatus string) bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.Status), activeStatus)
}

// AdminAuthState 后台管理员鉴权快照
type AdminAuthState struct {
	TokenState
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	IsSuper  bool   `json:"is_super"`
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		TokenState: newTokenState(user.TokenVersion, user.TokenInvalidBefore),
		UserID:     user.ID,
		Status:     user.Status,
	}
}

// BuildAdminAuthState 从管理员模型构建鉴权快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		TokenState: newTokenState(admin.TokenVersion, admin.TokenInvalidBefore),
		AdminID:    admin.ID,
		Username:   admin.Username,
		IsSuper:    admin.IsSuper,
	}
}

func authStateKey(principal string, id uint) string {
	return fmt.Sprintf("auth:%s:%d", principal, id)
}

func loadAuthState[T any](ctx context.Context, principal string, id uint) (*T, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	state := new(T)
	hit, err := GetJSON(ctx, authStateKey(principal, id), state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state, true, nil
}

// GetUserAuthState 获取用户鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	return loadAuthState[UserAuthState](ctx, "user", userID)
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey("user", state.UserID), state, authStateCacheTTL)
}

// GetAdminAuthState 获取管理员鉴权快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	return loadAuthState[AdminAuthState](ctx, "admin", adminID)
}

// SetAdminAuthState 写入管理员鉴权快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey("admin", state.AdminID), state, authStateCacheTTL)
}
