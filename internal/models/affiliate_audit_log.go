package models

import "time"

// AffiliateAuditLog 推广业务审计日志
// 说明：记录后台对佣金、提现、推广账户与配置的变更操作。
type AffiliateAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorAdminID  uint      `gorm:"index;not null" json:"operatorAdminId"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operatorUsername"`
	Action           string    `gorm:"type:varchar(64);index;not null" json:"action"`
	TargetType       string    `gorm:"type:varchar(32);index;not null;default:''" json:"targetType"`
	TargetID         uint      `gorm:"index;not null;default:0" json:"targetId"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"requestId"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
}

// TableName 指定表名
func (AffiliateAuditLog) TableName() string {
	return "affiliate_audit_logs"
}
