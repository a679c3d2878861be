package main

import (
	"errors"
	"log"
	"os"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/authz"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const seedPassword = "Password123!"

type seedUser struct {
	Email       string
	DisplayName string
}

func main() {
	_ = godotenv.Load()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database); err != nil {
		stdLog.Fatalf("Failed to prepare database: %v", err)
	}

	// 默认超级管理员
	if _, err := models.EnsureDefaultAdmin(models.DB, os.Getenv("AFF_DEFAULT_ADMIN_USERNAME"), os.Getenv("AFF_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Fatalf("Failed to create default admin: %v", err)
	}

	container := provider.NewContainer(cfg)
	defer container.Close()

	// 财务与审计员账号
	seedAdmin(stdLog, container, "finance", authz.RoleFinance)
	seedAdmin(stdLog, container, "auditor", authz.RoleReadonlyAuditor)

	users := []seedUser{
		{Email: "owner@example.com", DisplayName: "Owner"},
		{Email: "alice@example.com", DisplayName: "Alice"},
		{Email: "bob@example.com", DisplayName: "Bob"},
	}
	created := make(map[string]*models.User, len(users))
	for _, item := range users {
		created[item.Email] = seedUserAccount(stdLog, item)
	}

	// 推广账户 ABC123，佣金 20%
	owner := created["owner@example.com"]
	var affiliate models.Affiliate
	err := models.DB.Where("code = ?", "ABC123").First(&affiliate).Error
	switch {
	case err == nil:
		stdLog.Printf("Affiliate already exists: %s", affiliate.Code)
	case errors.Is(err, gorm.ErrRecordNotFound):
		affiliate = models.Affiliate{
			UserID:         owner.ID,
			Code:           "ABC123",
			CommissionRate: models.NewRateFromFloat(0.2),
			Tier:           1,
			Status:         constants.AffiliateStatusActive,
		}
		if err := models.DB.Create(&affiliate).Error; err != nil {
			stdLog.Fatalf("Failed to create affiliate: %v", err)
		}
		stdLog.Printf("Created affiliate: %s", affiliate.Code)
	default:
		stdLog.Fatalf("Failed to load affiliate: %v", err)
	}

	// alice 待转化，bob 已转化
	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		user := created[email]
		if _, err := container.ReferralService.TrackReferral(affiliate.Code, user.ID, constants.ReferralSourceSignup); err != nil {
			if errors.Is(err, service.ErrAlreadyReferred) {
				stdLog.Printf("Referral already exists: %s", email)
				continue
			}
			stdLog.Printf("Failed to track referral %s: %v", email, err)
			continue
		}
		stdLog.Printf("Created referral: %s -> %s", email, affiliate.Code)
	}
	bob := created["bob@example.com"]
	referral, err := container.ReferralService.ConvertReferral(service.Operator{Username: "seed"}, service.ConversionInput{
		UserID:    bob.ID,
		Reference: "in_seed_0001",
		Amount:    4900,
		Currency:  cfg.Affiliate.Currency,
	})
	if err != nil {
		stdLog.Printf("Failed to convert referral: %v", err)
	} else {
		stdLog.Printf("Converted referral %d, commission %s", referral.ID, models.FormatMinorAmount(referral.Commission, cfg.Affiliate.Currency))
	}

	stdLog.Printf("Seed completed. Users share password %q", seedPassword)
}

func seedAdmin(stdLog *log.Logger, container *provider.Container, username, role string) {
	var admin models.Admin
	err := models.DB.Where("username = ?", username).First(&admin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		stdLog.Fatalf("Failed to load admin %s: %v", username, err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := service.HashPassword(seedPassword)
		if hashErr != nil {
			stdLog.Fatalf("Failed to hash password: %v", hashErr)
		}
		admin = models.Admin{Username: username, PasswordHash: hash}
		if err := models.DB.Create(&admin).Error; err != nil {
			stdLog.Fatalf("Failed to create admin %s: %v", username, err)
		}
		stdLog.Printf("Created admin: %s", username)
	}
	if _, err := container.AuthzService.SetAdminRoles(admin.ID, []string{role}); err != nil {
		stdLog.Printf("Failed to assign role %s to %s: %v", role, username, err)
	}
}

func seedUserAccount(stdLog *log.Logger, item seedUser) *models.User {
	var user models.User
	err := models.DB.Where("email = ?", item.Email).First(&user).Error
	if err == nil {
		stdLog.Printf("User already exists: %s", item.Email)
		return &user
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		stdLog.Fatalf("Failed to load user %s: %v", item.Email, err)
	}
	hash, err := service.HashPassword(seedPassword)
	if err != nil {
		stdLog.Fatalf("Failed to hash password: %v", err)
	}
	user = models.User{
		Email:        item.Email,
		PasswordHash: hash,
		DisplayName:  item.DisplayName,
		Locale:       "en-US",
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Fatalf("Failed to create user %s: %v", item.Email, err)
	}
	stdLog.Printf("Created user: %s", item.Email)
	return &user
}
