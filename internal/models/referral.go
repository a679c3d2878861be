package models

import "time"

// Referral 推荐记录：一个被推荐用户归属到一个推广账户
type Referral struct {
	ID                  uint       `gorm:"primarykey" json:"id"`                                   // 主键
	AffiliateID         uint       `gorm:"not null;index" json:"affiliateId"`                      // 推广账户ID
	ReferredUserID      uint       `gorm:"not null;uniqueIndex" json:"referredUserId"`             // 被推荐用户ID（全局唯一）
	Status              string     `gorm:"type:varchar(16);not null;index" json:"status"`          // 状态
	Source              string     `gorm:"type:varchar(64);not null;default:''" json:"source"`     // 归因来源
	ConversionValue     int64      `gorm:"not null;default:0" json:"conversionValue"`              // 转化金额（最小货币单位）
	Commission          int64      `gorm:"not null;default:0" json:"commission"`                   // 佣金（最小货币单位，仅 CONVERTED 时非零）
	Currency            string     `gorm:"type:varchar(8);not null;default:'USD'" json:"currency"` // 币种
	ConversionReference string     `gorm:"type:varchar(128);index" json:"conversionReference"`     // 转化交易号
	CancelType          string     `gorm:"type:varchar(16);not null;default:''" json:"cancelType"` // 冲正类型 refund/chargeback
	ConvertedAt         *time.Time `json:"convertedAt,omitempty"`                                  // 转化时间
	CanceledAt          *time.Time `json:"canceledAt,omitempty"`                                   // 取消时间
	CreatedAt           time.Time  `gorm:"index" json:"createdAt"`                                 // 创建时间
	UpdatedAt           time.Time  `gorm:"index" json:"updatedAt"`                                 // 更新时间

	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 推广账户
}

// TableName 指定表名
func (Referral) TableName() string {
	return "referrals"
}
