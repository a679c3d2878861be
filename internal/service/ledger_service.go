package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"gorm.io/gorm"
)

// BalanceRefresher 余额快照刷新触发器
type BalanceRefresher interface {
	EnqueueAffiliateBalanceRefresh(affiliateID uint) error
}

// LedgerService 佣金台账服务
type LedgerService struct {
	repo repository.LedgerRepository
}

// NewLedgerService 创建台账服务
func NewLedgerService(repo repository.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// LedgerPosting 入账请求
type LedgerPosting struct {
	AffiliateID uint
	EntryType   string
	SourceKey   string
	Amount      int64
	ReferralID  *uint
	PayoutID    *uint
	Memo        string
}

// PostTx 在事务内入账，已存在同源分录时返回 false
func (s *LedgerService) PostTx(tx *gorm.DB, posting LedgerPosting) (bool, error) {
	if posting.AffiliateID == 0 || strings.TrimSpace(posting.SourceKey) == "" {
		return false, fmt.Errorf("ledger posting requires affiliate and source")
	}
	if err := validateLedgerSign(posting.EntryType, posting.Amount); err != nil {
		return false, err
	}
	repo := s.repo.WithTx(tx)
	// 先查再写，避免 postgres 事务因唯一索引冲突被整体中止
	exists, err := repo.Exists(posting.EntryType, posting.SourceKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	entry := &models.AffiliateLedgerEntry{
		AffiliateID: posting.AffiliateID,
		EntryType:   posting.EntryType,
		SourceKey:   posting.SourceKey,
		Amount:      posting.Amount,
		ReferralID:  posting.ReferralID,
		PayoutID:    posting.PayoutID,
		Memo:        strings.TrimSpace(posting.Memo),
		CreatedAt:   time.Now(),
	}
	if err := repo.Append(entry); err != nil {
		return false, err
	}
	return true, nil
}

// BalanceTx 在事务内汇总可用余额
func (s *LedgerService) BalanceTx(tx *gorm.DB, affiliateID uint) (int64, error) {
	return s.repo.WithTx(tx).SumByAffiliate(affiliateID)
}

// Balance 汇总可用余额
func (s *LedgerService) Balance(affiliateID uint) (int64, error) {
	return s.repo.SumByAffiliate(affiliateID)
}

// List 查询台账分录
func (s *LedgerService) List(filter repository.LedgerListFilter) ([]models.AffiliateLedgerEntry, int64, error) {
	return s.repo.List(filter)
}

func validateLedgerSign(entryType string, amount int64) error {
	switch entryType {
	case constants.LedgerEntryCommissionCredit, constants.LedgerEntryPayoutRelease:
		if amount <= 0 {
			return fmt.Errorf("ledger %s amount must be positive", entryType)
		}
	case constants.LedgerEntryCommissionReversal, constants.LedgerEntryPayoutHold:
		if amount >= 0 {
			return fmt.Errorf("ledger %s amount must be negative", entryType)
		}
	default:
		return fmt.Errorf("ledger entry type %q unsupported", entryType)
	}
	return nil
}

func referralSourceKey(referralID uint) string {
	return fmt.Sprintf("referral:%d", referralID)
}

func payoutSourceKey(payoutID uint) string {
	return fmt.Sprintf("payout:%d", payoutID)
}

func requestBalanceRefresh(refresher BalanceRefresher, affiliateID uint) {
	if refresher == nil || affiliateID == 0 {
		return
	}
	if err := refresher.EnqueueAffiliateBalanceRefresh(affiliateID); err != nil {
		logger.Warnw("affiliate_balance_refresh_enqueue_failed", "affiliate_id", affiliateID, "error", err)
	}
}
