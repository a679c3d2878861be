package service

import (
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"gorm.io/gorm"
)

// Operator 后台操作人
type Operator struct {
	AdminID   uint
	Username  string
	RequestID string
}

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	Operator   Operator
	Action     string
	TargetType string
	TargetID   uint
	Detail     models.JSON
}

// AuditService 推广业务审计服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 记录审计日志
func (s *AuditService) Record(input AuditRecordInput) error {
	return s.RecordTx(nil, input)
}

// RecordTx 在事务内记录审计日志，tx 为空时使用默认连接
func (s *AuditService) RecordTx(tx *gorm.DB, input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Operator.AdminID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	item := &models.AffiliateAuditLog{
		OperatorAdminID:  input.Operator.AdminID,
		OperatorUsername: strings.TrimSpace(input.Operator.Username),
		Action:           strings.TrimSpace(input.Action),
		TargetType:       strings.TrimSpace(input.TargetType),
		TargetID:         input.TargetID,
		RequestID:        strings.TrimSpace(input.Operator.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	}
	return s.repo.WithTx(tx).Create(item)
}

// ListForAdmin 管理端查询审计日志
func (s *AuditService) ListForAdmin(filter repository.AuditLogListFilter) ([]models.AffiliateAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AffiliateAuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
