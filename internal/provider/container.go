package provider

import (
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/authz"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/cache"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/queue"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	SettingRepo   repository.SettingRepository
	AffiliateRepo repository.AffiliateRepository
	ReferralRepo  repository.ReferralRepository
	PayoutRepo    repository.PayoutRepository
	LedgerRepo    repository.LedgerRepository
	AuditLogRepo  repository.AuditLogRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	UserAuthService       *service.UserAuthService
	SettingService        *service.SettingService
	LedgerService         *service.LedgerService
	AuditService          *service.AuditService
	AffiliateService      *service.AffiliateService
	ReferralService       *service.ReferralService
	PayoutService         *service.PayoutService
	BillingWebhookService *service.BillingWebhookService
}

// NewContainer 初始化容器，使用全局数据库连接
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 队列未启用时返回禁用客户端，转化任务回落为同步执行
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.ReferralRepo = repository.NewReferralRepository(db)
	c.PayoutRepo = repository.NewPayoutRepository(db)
	c.LedgerRepo = repository.NewLedgerRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	currency := c.Config.Affiliate.Currency
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.LedgerService = service.NewLedgerService(c.LedgerRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)

	c.AffiliateService = service.NewAffiliateService(service.AffiliateServiceOptions{
		Repo:             c.AffiliateRepo,
		UserRepo:         c.UserRepo,
		Ledger:           c.LedgerService,
		SettingService:   c.SettingService,
		Audit:            c.AuditService,
		Refresher:        c.QueueClient,
		Currency:         currency,
		ValidateCacheTTL: time.Duration(c.Config.Affiliate.ValidateCacheTTLSeconds) * time.Second,
	})
	c.ReferralService = service.NewReferralService(service.ReferralServiceOptions{
		AffiliateRepo: c.AffiliateRepo,
		ReferralRepo:  c.ReferralRepo,
		UserRepo:      c.UserRepo,
		Ledger:        c.LedgerService,
		Audit:         c.AuditService,
		Affiliates:    c.AffiliateService,
		Tokens:        service.NewReferralTokenService(c.Config.Affiliate.ReferralTokenSecret),
		Refresher:     c.QueueClient,
		Currency:      currency,
	})
	c.PayoutService = service.NewPayoutService(service.PayoutServiceOptions{
		Repo:           c.PayoutRepo,
		AffiliateRepo:  c.AffiliateRepo,
		Ledger:         c.LedgerService,
		Audit:          c.AuditService,
		SettingService: c.SettingService,
		Rails:          service.BuildPayoutRails(c.Config.Payout),
		Refresher:      c.QueueClient,
		Currency:       currency,
	})
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.ReferralService)
	c.BillingWebhookService = service.NewBillingWebhookService(c.Config.Payout.Stripe, c.ReferralService, c.QueueClient)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}
