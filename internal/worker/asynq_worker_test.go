package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("redis.enabled", false)
	v.Set("queue.enabled", false)
	cfg, err := config.Unmarshal(v)
	if err != nil {
		t.Fatalf("config unmarshal failed: %v", err)
	}
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	container := provider.NewContainerWithDB(cfg, db)
	t.Cleanup(container.Close)
	return NewConsumer(container), db
}

func seedReferral(t *testing.T, consumer *Consumer, db *gorm.DB) (models.Affiliate, models.User) {
	t.Helper()
	owner := models.User{Email: "owner-worker@example.com", PasswordHash: "x", Status: constants.UserStatusActive}
	referred := models.User{Email: "referred-worker@example.com", PasswordHash: "x", Status: constants.UserStatusActive}
	for _, user := range []*models.User{&owner, &referred} {
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("create user failed: %v", err)
		}
	}
	affiliate := models.Affiliate{
		UserID:         owner.ID,
		Code:           "WORK0001",
		CommissionRate: models.NewRateFromFloat(0.2),
		Tier:           1,
		Status:         constants.AffiliateStatusActive,
	}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	if _, err := consumer.ReferralService.TrackReferral("WORK0001", referred.ID, constants.ReferralSourceSignup); err != nil {
		t.Fatalf("track referral failed: %v", err)
	}
	return affiliate, referred
}

func TestHandleReferralConvertCreditsCommission(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	affiliate, referred := seedReferral(t, consumer, db)

	task, err := queue.NewReferralConvertTask(queue.ReferralConvertPayload{
		UserID:    referred.ID,
		Reference: "in_worker",
		Amount:    2500,
		Currency:  "USD",
		Source:    "stripe:invoice.paid",
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	// 重复投递只入账一次
	for i := 0; i < 2; i++ {
		if err := consumer.handleReferralConvert(context.Background(), task); err != nil {
			t.Fatalf("handle convert #%d failed: %v", i, err)
		}
	}

	var referral models.Referral
	if err := db.Where("referred_user_id = ?", referred.ID).First(&referral).Error; err != nil {
		t.Fatalf("load referral failed: %v", err)
	}
	if referral.Status != constants.ReferralStatusConverted || referral.Commission != 500 {
		t.Fatalf("unexpected referral: %+v", referral)
	}
	balance, err := consumer.LedgerService.Balance(affiliate.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 500 {
		t.Fatalf("expected balance 500, got %d", balance)
	}
}

func TestHandleReferralConvertSkipsUnknownUser(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	task, err := queue.NewReferralConvertTask(queue.ReferralConvertPayload{UserID: 424242, Reference: "in_x", Amount: 100})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleReferralConvert(context.Background(), task); err != nil {
		t.Fatalf("unknown user should be skipped, got %v", err)
	}

	bad := asynq.NewTask(queue.TaskReferralConvert, []byte("{not-json"))
	if err := consumer.handleReferralConvert(context.Background(), bad); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}

func TestHandleBalanceRefreshWithoutRedis(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	affiliate, _ := seedReferral(t, consumer, db)

	task, err := queue.NewAffiliateBalanceRefreshTask(queue.AffiliateBalanceRefreshPayload{AffiliateID: affiliate.ID})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleBalanceRefresh(context.Background(), task); err != nil {
		t.Fatalf("balance refresh should not fail without redis, got %v", err)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); err == nil {
		t.Fatalf("expected error for disabled queue")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("expected error for nil consumer")
	}
}
