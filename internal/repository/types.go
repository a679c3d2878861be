package repository

import "time"

// AffiliateListFilter 查询推广账户列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Code     string
	Status   string
	Keyword  string
}

// ReferralListFilter 查询推荐记录列表的过滤条件
type ReferralListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PayoutListFilter 查询提现单列表的过滤条件
type PayoutListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Statuses    []string
	Method      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// LedgerListFilter 查询台账分录列表的过滤条件
type LedgerListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	EntryType   string
}

// AuditLogListFilter 查询推广审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	Action          string
	TargetType      string
	TargetID        uint
	Keyword         string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// AffiliateStatsAggregate 推广账户统计聚合
type AffiliateStatsAggregate struct {
	ClickCount       int64
	ReferralCount    int64
	ConvertedCount   int64
	CanceledCount    int64
	EarnedCommission int64
}
