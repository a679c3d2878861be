package queue

import (
	"encoding/json"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReferralConvert 推荐转化任务
	TaskReferralConvert = constants.TaskReferralConvert
	// TaskAffiliateBalanceRefresh 余额快照刷新任务
	TaskAffiliateBalanceRefresh = constants.TaskAffiliateBalanceRefresh
)

// ReferralConvertPayload 推荐转化任务载荷
type ReferralConvertPayload struct {
	UserID    uint   `json:"user_id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Source    string `json:"source"`
}

// AffiliateBalanceRefreshPayload 余额快照刷新任务载荷
type AffiliateBalanceRefreshPayload struct {
	AffiliateID uint `json:"affiliate_id"`
}

// NewReferralConvertTask 创建推荐转化任务
func NewReferralConvertTask(payload ReferralConvertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralConvert, body), nil
}

// NewAffiliateBalanceRefreshTask 创建余额快照刷新任务
func NewAffiliateBalanceRefreshTask(payload AffiliateBalanceRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAffiliateBalanceRefresh, body), nil
}
