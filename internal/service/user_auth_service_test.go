package service

import (
	"errors"
	"testing"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"
)

func newUserAuthTestService(env *affiliateTestEnv) *UserAuthService {
	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "user-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(env.db), env.referrals)
}

func TestUserRegisterWithReferralToken(t *testing.T) {
	env := setupAffiliateServiceTest(t)
	owner := createAffiliateTestUser(t, env.db, "owner-register@example.com")
	affiliate := createAffiliateTestAccount(t, env.db, owner.ID, "REGI0001", 0.2, constants.AffiliateStatusActive)
	svc := newUserAuthTestService(env)

	token, _, err := env.referrals.IssueReferralToken(TrackClickInput{Code: "REGI0001", Source: constants.ReferralSourceSignup})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	result, err := svc.Register(RegisterInput{
		Email:         "  New.User@Example.com ",
		Password:      "password123",
		ReferralToken: token,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.Email != "new.user@example.com" || result.User.DisplayName != "new.user" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if result.Referral == nil || result.Referral.AffiliateID != affiliate.ID || result.AttributionError != nil {
		t.Fatalf("expected referral attribution, got referral=%+v err=%v", result.Referral, result.AttributionError)
	}

	claims, err := svc.ParseUserJWT(result.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("expected user id %d in claims, got %d", result.User.ID, claims.UserID)
	}
}

func TestUserRegisterAttributionFailureDoesNotBlockSignup(t *testing.T) {
	env := setupAffiliateServiceTest(t)
	svc := newUserAuthTestService(env)

	result, err := svc.Register(RegisterInput{
		Email:         "broken-token@example.com",
		Password:      "password123",
		ReferralToken: "garbage",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Referral != nil || result.AttributionError == nil {
		t.Fatalf("expected attribution error only, got %+v", result)
	}

	if _, err := svc.Register(RegisterInput{Email: "broken-token@example.com", Password: "password123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Email: "short@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "password123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestUserLoginAndChangePassword(t *testing.T) {
	env := setupAffiliateServiceTest(t)
	svc := newUserAuthTestService(env)
	registered, err := svc.Register(RegisterInput{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("login@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	user, token, _, err := svc.Login("LOGIN@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.User.ID || token == "" {
		t.Fatalf("unexpected login result: %+v", user)
	}

	if err := svc.ChangePassword(user.ID, "wrong-password", "newpassword456"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "password123", "newpassword456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	reloaded, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if reloaded.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", reloaded.TokenVersion)
	}
	if _, _, _, err := svc.Login("login@example.com", "newpassword456"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
