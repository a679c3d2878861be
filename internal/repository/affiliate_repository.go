package repository

import (
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AffiliateRepository 推广账户数据访问接口
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	GetByID(id uint) (*models.Affiliate, error)
	GetByIDForUpdate(id uint) (*models.Affiliate, error)
	GetByUserID(userID uint) (*models.Affiliate, error)
	GetByCode(code string) (*models.Affiliate, error)
	Create(affiliate *models.Affiliate) error
	UpdateStatus(id uint, status string, updatedAt time.Time) error
	UpdateRateTier(id uint, rate models.Rate, tier int, updatedAt time.Time) error
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)

	CreateClick(click *models.AffiliateClick) error
	HasRecentClick(affiliateID uint, visitorKey, landingPath string, since time.Time) (bool, error)
	CountClicks(affiliateID uint) (int64, error)
	GetStatsBatch(affiliateIDs []uint) (map[uint]AffiliateStatsAggregate, error)
}

var affiliateKeywordFilter = keywordFilter{columns: []string{"users.email", "users.display_name", "affiliates.code"}}

// GormAffiliateRepository GORM 推广账户仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建推广账户仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormAffiliateRepository) first(query *gorm.DB) (*models.Affiliate, error) {
	return firstOrNil[models.Affiliate](query)
}

// GetByID 按ID获取推广账户
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(r.db.Preload("User").Where("id = ?", id))
}

// GetByIDForUpdate 按ID加锁获取推广账户，用于串行化同一账户的余额变更
func (r *GormAffiliateRepository) GetByIDForUpdate(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// GetByUserID 按用户ID获取推广账户
func (r *GormAffiliateRepository) GetByUserID(userID uint) (*models.Affiliate, error) {
	if userID == 0 {
		return nil, nil
	}
	return r.first(r.db.Preload("User").Where("user_id = ?", userID))
}

// GetByCode 按推广码获取推广账户（不区分大小写）
func (r *GormAffiliateRepository) GetByCode(code string) (*models.Affiliate, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	return r.first(r.db.Where("code = ?", normalized))
}

// Create 创建推广账户
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// UpdateStatus 更新推广账户状态
func (r *GormAffiliateRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// UpdateRateTier 更新佣金比例与等级
func (r *GormAffiliateRepository) UpdateRateTier(id uint, rate models.Rate, tier int, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"commission_rate": rate,
			"tier":            tier,
			"updated_at":      updatedAt,
		}).Error
}

// List 查询推广账户列表
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{}).Preload("User")
	if filter.UserID != 0 {
		query = query.Where("affiliates.user_id = ?", filter.UserID)
	}
	if code := strings.TrimSpace(filter.Code); code != "" {
		query = query.Where("affiliates.code = ?", strings.ToUpper(code))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("affiliates.status = ?", strings.ToUpper(status))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = affiliateKeywordFilter.apply(query.Joins("LEFT JOIN users ON users.id = affiliates.user_id"), keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Affiliate
	if err := query.Order("affiliates.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateClick 创建推广点击记录
func (r *GormAffiliateRepository) CreateClick(click *models.AffiliateClick) error {
	return r.db.Create(click).Error
}

// HasRecentClick 查询是否存在近期重复点击记录
func (r *GormAffiliateRepository) HasRecentClick(affiliateID uint, visitorKey, landingPath string, since time.Time) (bool, error) {
	if affiliateID == 0 || strings.TrimSpace(visitorKey) == "" {
		return false, nil
	}
	query := r.db.Model(&models.AffiliateClick{}).
		Where("affiliate_id = ? AND visitor_key = ? AND created_at >= ?",
			affiliateID,
			strings.TrimSpace(visitorKey),
			since,
		)
	if path := strings.TrimSpace(landingPath); path != "" {
		query = query.Where("landing_path = ?", path)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// CountClicks 统计推广点击数
func (r *GormAffiliateRepository) CountClicks(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.AffiliateClick{}).Where("affiliate_id = ?", affiliateID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

type affiliateCountRow struct {
	AffiliateID uint
	Total       int64
}

type affiliateReferralRow struct {
	AffiliateID uint
	Status      string
	Total       int64
	Commission  int64
}

// GetStatsBatch 批量统计推广账户的点击、推荐与佣金
func (r *GormAffiliateRepository) GetStatsBatch(affiliateIDs []uint) (map[uint]AffiliateStatsAggregate, error) {
	result := make(map[uint]AffiliateStatsAggregate, len(affiliateIDs))
	if len(affiliateIDs) == 0 {
		return result, nil
	}

	var clickRows []affiliateCountRow
	if err := r.db.Model(&models.AffiliateClick{}).
		Select("affiliate_id, COUNT(*) AS total").
		Where("affiliate_id IN ?", affiliateIDs).
		Group("affiliate_id").
		Scan(&clickRows).Error; err != nil {
		return nil, err
	}
	for _, row := range clickRows {
		item := result[row.AffiliateID]
		item.ClickCount = row.Total
		result[row.AffiliateID] = item
	}

	var referralRows []affiliateReferralRow
	if err := r.db.Model(&models.Referral{}).
		Select("affiliate_id, status, COUNT(*) AS total, COALESCE(SUM(commission), 0) AS commission").
		Where("affiliate_id IN ?", affiliateIDs).
		Group("affiliate_id, status").
		Scan(&referralRows).Error; err != nil {
		return nil, err
	}
	for _, row := range referralRows {
		item := result[row.AffiliateID]
		item.ReferralCount += row.Total
		switch row.Status {
		case constants.ReferralStatusConverted:
			item.ConvertedCount += row.Total
			item.EarnedCommission += row.Commission
		case constants.ReferralStatusCanceled:
			item.CanceledCount += row.Total
		}
		result[row.AffiliateID] = item
	}
	return result, nil
}
