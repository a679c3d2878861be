package repository

import (
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralRepository 推荐记录数据访问接口
type ReferralRepository interface {
	WithTx(tx *gorm.DB) ReferralRepository

	GetByID(id uint) (*models.Referral, error)
	GetByReferredUserID(userID uint) (*models.Referral, error)
	GetByReferredUserIDForUpdate(userID uint) (*models.Referral, error)
	Create(referral *models.Referral) error
	Update(referral *models.Referral) error
	List(filter ReferralListFilter) ([]models.Referral, int64, error)
}

// GormReferralRepository GORM 推荐记录仓储
type GormReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 创建推荐记录仓储
func NewReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReferralRepository) WithTx(tx *gorm.DB) ReferralRepository {
	if tx == nil {
		return r
	}
	return &GormReferralRepository{db: tx}
}

func (r *GormReferralRepository) first(query *gorm.DB) (*models.Referral, error) {
	return firstOrNil[models.Referral](query)
}

// GetByID 按ID获取推荐记录
func (r *GormReferralRepository) GetByID(id uint) (*models.Referral, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(r.db.Where("id = ?", id))
}

// GetByReferredUserID 按被推荐用户获取推荐记录
func (r *GormReferralRepository) GetByReferredUserID(userID uint) (*models.Referral, error) {
	if userID == 0 {
		return nil, nil
	}
	return r.first(r.db.Where("referred_user_id = ?", userID))
}

// GetByReferredUserIDForUpdate 按被推荐用户加锁获取推荐记录
func (r *GormReferralRepository) GetByReferredUserIDForUpdate(userID uint) (*models.Referral, error) {
	if userID == 0 {
		return nil, nil
	}
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("referred_user_id = ?", userID))
}

// Create 创建推荐记录
func (r *GormReferralRepository) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

// Update 更新推荐记录
func (r *GormReferralRepository) Update(referral *models.Referral) error {
	return r.db.Save(referral).Error
}

// List 查询推荐记录列表
func (r *GormReferralRepository) List(filter ReferralListFilter) ([]models.Referral, int64, error) {
	query := r.db.Model(&models.Referral{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Referral
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
