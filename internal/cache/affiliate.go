package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const balanceSnapshotTTL = 30 * time.Minute

// AffiliateCodeSnapshot 推广码校验结果快照
type AffiliateCodeSnapshot struct {
	AffiliateID    uint   `json:"affiliate_id"`
	Code           string `json:"code"`
	Tier           int    `json:"tier"`
	CommissionRate string `json:"commission_rate"`
	Status         string `json:"status"`
}

// AffiliateBalanceSnapshot 推广账户余额快照（仅用于展示，不参与提现校验）
type AffiliateBalanceSnapshot struct {
	AffiliateID uint   `json:"affiliate_id"`
	Balance     int64  `json:"balance"`
	Currency    string `json:"currency"`
	RefreshedAt int64  `json:"refreshed_at"`
}

func affiliateCodeKey(code string) string {
	return fmt.Sprintf("affiliate:code:%s", strings.ToUpper(strings.TrimSpace(code)))
}

func affiliateBalanceKey(affiliateID uint) string {
	return fmt.Sprintf("affiliate:balance:%d", affiliateID)
}

// GetAffiliateCode 读取推广码快照
func GetAffiliateCode(ctx context.Context, code string) (*AffiliateCodeSnapshot, bool, error) {
	if strings.TrimSpace(code) == "" {
		return nil, false, nil
	}
	var snapshot AffiliateCodeSnapshot
	hit, err := GetJSON(ctx, affiliateCodeKey(code), &snapshot)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &snapshot, true, nil
}

// SetAffiliateCode 写入推广码快照
func SetAffiliateCode(ctx context.Context, snapshot *AffiliateCodeSnapshot, ttl time.Duration) error {
	if snapshot == nil || strings.TrimSpace(snapshot.Code) == "" || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, affiliateCodeKey(snapshot.Code), snapshot, ttl)
}

// DelAffiliateCode 删除推广码快照
func DelAffiliateCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	return Del(ctx, affiliateCodeKey(code))
}

// GetAffiliateBalance 读取余额快照
func GetAffiliateBalance(ctx context.Context, affiliateID uint) (*AffiliateBalanceSnapshot, bool, error) {
	if affiliateID == 0 {
		return nil, false, nil
	}
	var snapshot AffiliateBalanceSnapshot
	hit, err := GetJSON(ctx, affiliateBalanceKey(affiliateID), &snapshot)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &snapshot, true, nil
}

// SetAffiliateBalance 写入余额快照
func SetAffiliateBalance(ctx context.Context, snapshot *AffiliateBalanceSnapshot) error {
	if snapshot == nil || snapshot.AffiliateID == 0 {
		return nil
	}
	return SetJSON(ctx, affiliateBalanceKey(snapshot.AffiliateID), snapshot, balanceSnapshotTTL)
}
