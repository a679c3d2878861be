package repository

import (
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"

	"gorm.io/gorm"
)

// AuditLogRepository 推广审计日志数据访问接口
type AuditLogRepository interface {
	WithTx(tx *gorm.DB) AuditLogRepository
	Create(log *models.AffiliateAuditLog) error
	List(filter AuditLogListFilter) ([]models.AffiliateAuditLog, int64, error)
}

var auditKeywordFilter = keywordFilter{columns: []string{"operator_username", "request_id"}, detailJSON: "detail_json"}

// GormAuditLogRepository GORM 实现
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建推广审计日志仓库
func NewAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAuditLogRepository) WithTx(tx *gorm.DB) AuditLogRepository {
	if tx == nil {
		return r
	}
	return &GormAuditLogRepository{db: tx}
}

// Create 创建审计日志
func (r *GormAuditLogRepository) Create(log *models.AffiliateAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 管理端查询审计日志
func (r *GormAuditLogRepository) List(filter AuditLogListFilter) ([]models.AffiliateAuditLog, int64, error) {
	query := r.db.Model(&models.AffiliateAuditLog{})
	if filter.OperatorAdminID != 0 {
		query = query.Where("operator_admin_id = ?", filter.OperatorAdminID)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		query = query.Where("action = ?", action)
	}
	if targetType := strings.TrimSpace(filter.TargetType); targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	if filter.TargetID != 0 {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	query = auditKeywordFilter.apply(query, filter.Keyword)
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

	var rows []models.AffiliateAuditLog
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
