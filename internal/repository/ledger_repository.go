package repository

import (
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository 佣金台账数据访问接口
type LedgerRepository interface {
	WithTx(tx *gorm.DB) LedgerRepository

	Append(entry *models.AffiliateLedgerEntry) error
	Exists(entryType, sourceKey string) (bool, error)
	SumByAffiliate(affiliateID uint) (int64, error)
	List(filter LedgerListFilter) ([]models.AffiliateLedgerEntry, int64, error)
}

// GormLedgerRepository GORM 台账仓储
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建台账仓储
func NewLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	if tx == nil {
		return r
	}
	return &GormLedgerRepository{db: tx}
}

// Append 追加分录；同一 (entry_type, source_key) 重复写入由唯一索引拒绝
func (r *GormLedgerRepository) Append(entry *models.AffiliateLedgerEntry) error {
	return r.db.Create(entry).Error
}

// Exists 判断分录是否已入账
func (r *GormLedgerRepository) Exists(entryType, sourceKey string) (bool, error) {
	var total int64
	if err := r.db.Model(&models.AffiliateLedgerEntry{}).
		Where("entry_type = ? AND source_key = ?", strings.TrimSpace(entryType), strings.TrimSpace(sourceKey)).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// SumByAffiliate 汇总推广账户的可用余额
func (r *GormLedgerRepository) SumByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var sum int64
	if err := r.db.Model(&models.AffiliateLedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("affiliate_id = ?", affiliateID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// List 查询台账分录
func (r *GormLedgerRepository) List(filter LedgerListFilter) ([]models.AffiliateLedgerEntry, int64, error) {
	query := r.db.Model(&models.AffiliateLedgerEntry{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if entryType := strings.TrimSpace(filter.EntryType); entryType != "" {
		query = query.Where("entry_type = ?", entryType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.AffiliateLedgerEntry
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
