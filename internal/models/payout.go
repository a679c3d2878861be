package models

import "time"

// Payout 推广佣金提现单
type Payout struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                     // 主键
	Reference   string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"reference"`   // 对外单号（ULID）
	AffiliateID uint       `gorm:"not null;index" json:"affiliateId"`                        // 推广账户ID
	Amount      int64      `gorm:"not null" json:"amount"`                                   // 金额（最小货币单位）
	Currency    string     `gorm:"type:varchar(8);not null" json:"currency"`                 // 币种
	Method      string     `gorm:"type:varchar(20);not null;index" json:"method"`            // 提现渠道
	Account     string     `gorm:"type:varchar(255);not null;default:''" json:"account"`     // 收款账号
	Status      string     `gorm:"type:varchar(16);not null;index" json:"status"`            // 状态
	Notes       string     `gorm:"type:text" json:"notes"`                                   // 备注（驳回原因/失败信息）
	ProviderRef string     `gorm:"type:varchar(128);not null;default:''" json:"providerRef"` // 渠道流水号
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`                                    // 提交渠道时间，非空表示已发起打款
	ProcessedBy *uint      `gorm:"index" json:"processedBy,omitempty"`                       // 处理管理员
	ProcessedAt *time.Time `gorm:"index" json:"processedAt,omitempty"`                       // 处理时间
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`                                   // 创建时间
	UpdatedAt   time.Time  `gorm:"index" json:"updatedAt"`                                   // 更新时间

	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 推广账户
}

// TableName 指定表名
func (Payout) TableName() string {
	return "payouts"
}
