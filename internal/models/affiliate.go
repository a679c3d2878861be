package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate 推广账户
type Affiliate struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                       // 主键
	UserID         uint           `gorm:"not null;uniqueIndex" json:"userId"`                         // 所属用户ID（1:1）
	Code           string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`          // 推广码（签发后不可变）
	CommissionRate Rate           `gorm:"type:decimal(6,4);not null;default:0" json:"commissionRate"` // 佣金比例 0-1
	Tier           int            `gorm:"not null;default:1" json:"tier"`                             // 等级
	Status         string         `gorm:"type:varchar(16);not null;index" json:"status"`              // 状态
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`                                     // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updatedAt"`                                     // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
