package service

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/cache"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"gorm.io/gorm"
)

const (
	affiliateCodeLength        = 8
	affiliateCodeMaxRetry      = 8
	affiliateClickDedupeWindow = 10 * time.Minute
)

// AffiliateService 推广账户业务服务
type AffiliateService struct {
	repo             repository.AffiliateRepository
	userRepo         repository.UserRepository
	ledger           *LedgerService
	settingService   *SettingService
	audit            *AuditService
	refresher        BalanceRefresher
	currency         string
	validateCacheTTL time.Duration
}

// AffiliateServiceOptions 推广账户服务依赖
type AffiliateServiceOptions struct {
	Repo             repository.AffiliateRepository
	UserRepo         repository.UserRepository
	Ledger           *LedgerService
	SettingService   *SettingService
	Audit            *AuditService
	Refresher        BalanceRefresher
	Currency         string
	ValidateCacheTTL time.Duration
}

// NewAffiliateService 创建推广账户服务
func NewAffiliateService(opts AffiliateServiceOptions) *AffiliateService {
	currency := strings.ToUpper(strings.TrimSpace(opts.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	return &AffiliateService{
		repo:             opts.Repo,
		userRepo:         opts.UserRepo,
		ledger:           opts.Ledger,
		settingService:   opts.SettingService,
		audit:            opts.Audit,
		refresher:        opts.Refresher,
		currency:         currency,
		validateCacheTTL: opts.ValidateCacheTTL,
	}
}

// CodeValidation 推广码校验结果
// Found=false 表示推广码不存在；Found=true 且 Valid=false 表示账户非 ACTIVE。
type CodeValidation struct {
	Valid          bool        `json:"valid"`
	Found          bool        `json:"-"`
	Code           string      `json:"code,omitempty"`
	Tier           int         `json:"tier,omitempty"`
	CommissionRate models.Rate `json:"commissionRate"`
	Status         string      `json:"-"`
	AffiliateID    uint        `json:"-"`
}

// TrackClickInput 推广点击记录输入
type TrackClickInput struct {
	Code        string
	Source      string
	VisitorKey  string
	LandingPath string
	Referrer    string
	ClientIP    string
	UserAgent   string
}

// AffiliateDashboard 推广者面板
type AffiliateDashboard struct {
	Affiliate          *models.Affiliate `json:"affiliate"`
	Balance            int64             `json:"balance"`
	BalanceFormatted   string            `json:"balanceFormatted"`
	Currency           string            `json:"currency"`
	ClickCount         int64             `json:"clickCount"`
	ReferralCount      int64             `json:"referralCount"`
	ConvertedCount     int64             `json:"convertedCount"`
	CanceledCount      int64             `json:"canceledCount"`
	EarnedCommission   int64             `json:"earnedCommission"`
	ConversionRate     float64           `json:"conversionRate"`
	BalanceRefreshedAt *time.Time        `json:"balanceRefreshedAt,omitempty"`
}

// AffiliateAdminItem 管理端推广账户列表项
type AffiliateAdminItem struct {
	models.Affiliate
	ClickCount       int64 `json:"clickCount"`
	ReferralCount    int64 `json:"referralCount"`
	ConvertedCount   int64 `json:"convertedCount"`
	EarnedCommission int64 `json:"earnedCommission"`
}

// Join 为用户开通推广账户，已开通时直接返回
func (s *AffiliateService) Join(userID uint) (*models.Affiliate, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	setting, err := s.settingService.GetAffiliateSetting()
	if err != nil {
		return nil, err
	}
	if !setting.Enabled {
		return nil, ErrAffiliateDisabled
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(user.Status) == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}

	existing, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	for i := 0; i < affiliateCodeMaxRetry; i++ {
		code, genErr := generateAffiliateCode()
		if genErr != nil {
			return nil, genErr
		}
		affiliate := &models.Affiliate{
			UserID:         userID,
			Code:           code,
			CommissionRate: setting.DefaultCommissionRate,
			Tier:           setting.DefaultTier,
			Status:         constants.AffiliateStatusActive,
		}
		if err := s.repo.Create(affiliate); err != nil {
			if isUniqueViolation(err) {
				// 并发开通时 user_id 冲突，返回已存在的账户
				if current, getErr := s.repo.GetByUserID(userID); getErr == nil && current != nil {
					return current, nil
				}
				continue
			}
			return nil, err
		}
		return s.repo.GetByID(affiliate.ID)
	}
	return nil, ErrAffiliateCodeExhausted
}

// GetByUserID 获取用户的推广账户
func (s *AffiliateService) GetByUserID(userID uint) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// Validate 校验推广码，只读
func (s *AffiliateService) Validate(ctx context.Context, rawCode string) (CodeValidation, error) {
	code := normalizeAffiliateCode(rawCode)
	if code == "" {
		return CodeValidation{}, nil
	}
	if snapshot, hit, err := cache.GetAffiliateCode(ctx, code); err != nil {
		logger.Warnw("affiliate_code_cache_get_failed", "code", code, "error", err)
	} else if hit && snapshot != nil {
		return validationFromSnapshot(snapshot), nil
	}

	affiliate, err := s.repo.GetByCode(code)
	if err != nil {
		return CodeValidation{}, err
	}
	if affiliate == nil {
		return CodeValidation{Code: code}, nil
	}
	snapshot := &cache.AffiliateCodeSnapshot{
		AffiliateID:    affiliate.ID,
		Code:           affiliate.Code,
		Tier:           affiliate.Tier,
		CommissionRate: affiliate.CommissionRate.String(),
		Status:         affiliate.Status,
	}
	if err := cache.SetAffiliateCode(ctx, snapshot, s.validateCacheTTL); err != nil {
		logger.Warnw("affiliate_code_cache_set_failed", "code", code, "error", err)
	}
	return validationFromSnapshot(snapshot), nil
}

func validationFromSnapshot(snapshot *cache.AffiliateCodeSnapshot) CodeValidation {
	result := CodeValidation{
		Found:       true,
		Code:        snapshot.Code,
		Status:      snapshot.Status,
		AffiliateID: snapshot.AffiliateID,
	}
	if snapshot.Status != constants.AffiliateStatusActive {
		return result
	}
	rate, err := models.ParseRate(snapshot.CommissionRate)
	if err != nil {
		return result
	}
	result.Valid = true
	result.Tier = snapshot.Tier
	result.CommissionRate = rate
	return result
}

// TrackClick 记录推广链接访问，同一访客 10 分钟内去重
func (s *AffiliateService) TrackClick(input TrackClickInput) (*models.Affiliate, error) {
	code := normalizeAffiliateCode(input.Code)
	if code == "" {
		return nil, ErrAffiliateNotFound
	}
	setting, err := s.settingService.GetAffiliateSetting()
	if err != nil {
		return nil, err
	}
	if !setting.Enabled {
		return nil, ErrAffiliateDisabled
	}
	affiliate, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if affiliate == nil || affiliate.Status != constants.AffiliateStatusActive {
		return nil, ErrAffiliateNotFound
	}

	visitorKey := strings.TrimSpace(input.VisitorKey)
	landingPath := strings.TrimSpace(input.LandingPath)
	if visitorKey != "" {
		duplicated, err := s.repo.HasRecentClick(affiliate.ID, visitorKey, landingPath, time.Now().Add(-affiliateClickDedupeWindow))
		if err != nil {
			return nil, err
		}
		if duplicated {
			return affiliate, nil
		}
	}
	click := &models.AffiliateClick{
		AffiliateID: affiliate.ID,
		VisitorKey:  visitorKey,
		Source:      strings.TrimSpace(input.Source),
		LandingPath: landingPath,
		Referrer:    strings.TrimSpace(input.Referrer),
		ClientIP:    strings.TrimSpace(input.ClientIP),
		UserAgent:   strings.TrimSpace(input.UserAgent),
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateClick(click); err != nil {
		return nil, err
	}
	return affiliate, nil
}

// Dashboard 推广者面板；余额优先读快照，未命中时实时汇总并触发刷新
func (s *AffiliateService) Dashboard(ctx context.Context, userID uint) (*AffiliateDashboard, error) {
	affiliate, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.GetStatsBatch([]uint{affiliate.ID})
	if err != nil {
		return nil, err
	}
	agg := stats[affiliate.ID]

	dashboard := &AffiliateDashboard{
		Affiliate:        affiliate,
		Currency:         s.currency,
		ClickCount:       agg.ClickCount,
		ReferralCount:    agg.ReferralCount,
		ConvertedCount:   agg.ConvertedCount,
		CanceledCount:    agg.CanceledCount,
		EarnedCommission: agg.EarnedCommission,
		ConversionRate:   calcConversionRate(agg.ConvertedCount, agg.ClickCount),
	}

	snapshot, hit, err := cache.GetAffiliateBalance(ctx, affiliate.ID)
	if err != nil {
		logger.Warnw("affiliate_balance_cache_get_failed", "affiliate_id", affiliate.ID, "error", err)
	}
	if hit && snapshot != nil {
		dashboard.Balance = snapshot.Balance
		refreshedAt := time.Unix(snapshot.RefreshedAt, 0)
		dashboard.BalanceRefreshedAt = &refreshedAt
	} else {
		balance, err := s.ledger.Balance(affiliate.ID)
		if err != nil {
			return nil, err
		}
		dashboard.Balance = balance
		requestBalanceRefresh(s.refresher, affiliate.ID)
	}
	dashboard.BalanceFormatted = models.FormatMinorAmount(dashboard.Balance, s.currency)
	return dashboard, nil
}

// RefreshBalanceSnapshot 重新汇总台账余额并写入缓存
func (s *AffiliateService) RefreshBalanceSnapshot(ctx context.Context, affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, ErrAffiliateNotFound
	}
	balance, err := s.ledger.Balance(affiliateID)
	if err != nil {
		return 0, err
	}
	if err := cache.SetAffiliateBalance(ctx, &cache.AffiliateBalanceSnapshot{
		AffiliateID: affiliateID,
		Balance:     balance,
		Currency:    s.currency,
		RefreshedAt: time.Now().Unix(),
	}); err != nil {
		return balance, err
	}
	return balance, nil
}

// UpdateStatus 管理端更新推广账户状态
func (s *AffiliateService) UpdateStatus(op Operator, affiliateID uint, rawStatus string) (*models.Affiliate, error) {
	nextStatus := strings.ToUpper(strings.TrimSpace(rawStatus))
	if !isAffiliateStatus(nextStatus) {
		return nil, ErrAffiliateStatusInvalid
	}
	var previous string
	var code string
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		affiliate, err := repoTx.GetByIDForUpdate(affiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}
		previous = affiliate.Status
		code = affiliate.Code
		if previous == nextStatus {
			return nil
		}
		if err := repoTx.UpdateStatus(affiliate.ID, nextStatus, time.Now()); err != nil {
			return err
		}
		return s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionAffiliateStatus,
			TargetType: constants.AuditTargetAffiliate,
			TargetID:   affiliate.ID,
			Detail:     models.JSON{"from": previous, "to": nextStatus},
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCode(code)
	return s.repo.GetByID(affiliateID)
}

// UpdateRateTier 管理端调整佣金比例与等级；佣金比例只能通过此入口修改
func (s *AffiliateService) UpdateRateTier(op Operator, affiliateID uint, rate models.Rate, tier int) (*models.Affiliate, error) {
	if !rate.Valid() {
		return nil, ErrAffiliateRateInvalid
	}
	if tier < 1 || tier > affiliateTierMax {
		return nil, ErrAffiliateTierInvalid
	}
	rate = models.NewRate(rate.Decimal)
	var code string
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		affiliate, err := repoTx.GetByIDForUpdate(affiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}
		code = affiliate.Code
		if affiliate.CommissionRate.Equal(rate.Decimal) && affiliate.Tier == tier {
			return nil
		}
		if err := repoTx.UpdateRateTier(affiliate.ID, rate, tier, time.Now()); err != nil {
			return err
		}
		return s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionAffiliateRate,
			TargetType: constants.AuditTargetAffiliate,
			TargetID:   affiliate.ID,
			Detail: models.JSON{
				"fromRate": affiliate.CommissionRate.String(),
				"toRate":   rate.String(),
				"fromTier": affiliate.Tier,
				"toTier":   tier,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCode(code)
	return s.repo.GetByID(affiliateID)
}

// ListAdmin 管理端查询推广账户列表（带统计）
func (s *AffiliateService) ListAdmin(filter repository.AffiliateListFilter) ([]AffiliateAdminItem, int64, error) {
	rows, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	stats, err := s.repo.GetStatsBatch(ids)
	if err != nil {
		return nil, 0, err
	}
	items := make([]AffiliateAdminItem, 0, len(rows))
	for _, row := range rows {
		agg := stats[row.ID]
		items = append(items, AffiliateAdminItem{
			Affiliate:        row,
			ClickCount:       agg.ClickCount,
			ReferralCount:    agg.ReferralCount,
			ConvertedCount:   agg.ConvertedCount,
			EarnedCommission: agg.EarnedCommission,
		})
	}
	return items, total, nil
}

func (s *AffiliateService) invalidateCode(code string) {
	if code == "" {
		return
	}
	if err := cache.DelAffiliateCode(context.Background(), code); err != nil {
		logger.Warnw("affiliate_code_cache_del_failed", "code", code, "error", err)
	}
}

func isAffiliateStatus(status string) bool {
	switch status {
	case constants.AffiliateStatusActive, constants.AffiliateStatusSuspended, constants.AffiliateStatusInactive:
		return true
	}
	return false
}

func normalizeAffiliateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func calcConversionRate(converted, clicks int64) float64 {
	if clicks <= 0 || converted <= 0 {
		return 0
	}
	value := (float64(converted) / float64(clicks)) * 100
	return math.Round(value*100) / 100
}

func generateAffiliateCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var builder strings.Builder
	builder.Grow(affiliateCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < affiliateCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
