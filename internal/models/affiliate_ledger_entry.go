package models

import "time"

// AffiliateLedgerEntry 佣金台账分录（只追加）
// 说明：可用余额 = 该推广账户全部分录金额之和；(entry_type, source_key) 唯一，保证同一事件只入账一次。
type AffiliateLedgerEntry struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AffiliateID uint      `gorm:"not null;index" json:"affiliateId"`
	EntryType   string    `gorm:"type:varchar(32);not null;index:idx_affiliate_ledger_source,unique" json:"entryType"`
	SourceKey   string    `gorm:"type:varchar(64);not null;index:idx_affiliate_ledger_source,unique" json:"sourceKey"`
	Amount      int64     `gorm:"not null" json:"amount"`
	ReferralID  *uint     `gorm:"index" json:"referralId,omitempty"`
	PayoutID    *uint     `gorm:"index" json:"payoutId,omitempty"`
	Memo        string    `gorm:"type:varchar(255);not null;default:''" json:"memo"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

// TableName 指定表名
func (AffiliateLedgerEntry) TableName() string {
	return "affiliate_ledger_entries"
}
