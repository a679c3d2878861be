package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/queue"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReferralConvert, c.handleReferralConvert)
	mux.HandleFunc(queue.TaskAffiliateBalanceRefresh, c.handleBalanceRefresh)
}

func (c *Consumer) handleReferralConvert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_referral_convert_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReferralConvertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_referral_convert_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_referral_convert_skip_invalid_payload", "reference", payload.Reference)
		return nil
	}
	if c.ReferralService == nil {
		logger.Warnw("worker_referral_convert_skip_service_nil", "user_id", payload.UserID)
		return nil
	}

	referral, err := c.ReferralService.ConvertReferral(service.Operator{Username: payload.Source}, service.ConversionInput{
		UserID:    payload.UserID,
		Reference: payload.Reference,
		Amount:    payload.Amount,
		Currency:  payload.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReferralNotFound):
			logger.Debugw("worker_referral_convert_skip_no_referral", "user_id", payload.UserID, "reference", payload.Reference)
			return nil
		case errors.Is(err, service.ErrReferralStateInvalid):
			logger.Debugw("worker_referral_convert_skip_state", "user_id", payload.UserID, "reference", payload.Reference)
			return nil
		case errors.Is(err, service.ErrConversionAmountInvalid), errors.Is(err, service.ErrConversionRefRequired):
			logger.Warnw("worker_referral_convert_skip_invalid_input",
				"user_id", payload.UserID,
				"reference", payload.Reference,
				"amount", payload.Amount,
				"currency", payload.Currency,
				"error", err,
			)
			return nil
		default:
			logger.Warnw("worker_referral_convert_failed", "user_id", payload.UserID, "reference", payload.Reference, "error", err)
			return err
		}
	}
	logger.Infow("worker_referral_converted",
		"referral_id", referral.ID,
		"affiliate_id", referral.AffiliateID,
		"commission", referral.Commission,
		"source", payload.Source,
	)
	return nil
}

func (c *Consumer) handleBalanceRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_balance_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AffiliateBalanceRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_balance_refresh_unmarshal_failed", "error", err)
		return err
	}
	if payload.AffiliateID == 0 || c.AffiliateService == nil {
		logger.Debugw("worker_balance_refresh_skip", "affiliate_id", payload.AffiliateID)
		return nil
	}
	// 快照仅用于展示，缓存写入失败不重试
	balance, err := c.AffiliateService.RefreshBalanceSnapshot(ctx, payload.AffiliateID)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			return nil
		}
		logger.Warnw("worker_balance_refresh_failed", "affiliate_id", payload.AffiliateID, "error", err)
		return nil
	}
	logger.Debugw("worker_balance_refreshed", "affiliate_id", payload.AffiliateID, "balance", balance)
	return nil
}
