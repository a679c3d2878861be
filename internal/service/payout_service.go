package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/metrics"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// PayoutService 佣金提现服务
type PayoutService struct {
	repo           repository.PayoutRepository
	affiliateRepo  repository.AffiliateRepository
	ledger         *LedgerService
	audit          *AuditService
	settingService *SettingService
	rails          map[string]PayoutRail
	refresher      BalanceRefresher
	currency       string
}

// PayoutServiceOptions 提现服务依赖
type PayoutServiceOptions struct {
	Repo           repository.PayoutRepository
	AffiliateRepo  repository.AffiliateRepository
	Ledger         *LedgerService
	Audit          *AuditService
	SettingService *SettingService
	Rails          []PayoutRail
	Refresher      BalanceRefresher
	Currency       string
}

// NewPayoutService 创建提现服务
func NewPayoutService(opts PayoutServiceOptions) *PayoutService {
	currency := strings.ToUpper(strings.TrimSpace(opts.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	rails := make(map[string]PayoutRail, len(opts.Rails))
	for _, rail := range opts.Rails {
		if rail != nil {
			rails[rail.Method()] = rail
		}
	}
	return &PayoutService{
		repo:           opts.Repo,
		affiliateRepo:  opts.AffiliateRepo,
		ledger:         opts.Ledger,
		audit:          opts.Audit,
		settingService: opts.SettingService,
		rails:          rails,
		refresher:      opts.Refresher,
		currency:       currency,
	}
}

// PayoutRequestInput 提现申请输入
type PayoutRequestInput struct {
	Amount  int64
	Method  string
	Account string
}

// RequestPayout 推广者申请提现；锁定推广账户后在同一事务内汇总台账余额
func (s *PayoutService) RequestPayout(userID uint, input PayoutRequestInput) (*models.Payout, error) {
	if input.Amount <= 0 {
		return nil, ErrPayoutAmountInvalid
	}
	setting, err := s.settingService.GetAffiliateSetting()
	if err != nil {
		return nil, err
	}
	if !setting.Enabled {
		return nil, ErrAffiliateDisabled
	}
	if input.Amount < setting.MinPayoutAmount {
		return nil, ErrPayoutBelowMinimum
	}
	method := strings.ToUpper(strings.TrimSpace(input.Method))
	if !setting.PayoutMethodEnabled(method) {
		return nil, ErrPayoutMethodInvalid
	}
	account := strings.TrimSpace(input.Account)
	if account == "" {
		return nil, ErrPayoutAccountRequired
	}
	affiliate, err := s.affiliateRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}

	var payout *models.Payout
	err = s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		locked, err := s.affiliateRepo.WithTx(tx).GetByIDForUpdate(affiliate.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrAffiliateNotFound
		}
		if locked.Status != constants.AffiliateStatusActive {
			return ErrAffiliateInactive
		}
		balance, err := s.ledger.BalanceTx(tx, locked.ID)
		if err != nil {
			return err
		}
		if input.Amount > balance {
			return ErrInsufficientBalance
		}

		now := time.Now()
		payout = &models.Payout{
			Reference:   ulid.Make().String(),
			AffiliateID: locked.ID,
			Amount:      input.Amount,
			Currency:    s.currency,
			Method:      method,
			Account:     account,
			Status:      constants.PayoutStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.WithTx(tx).Create(payout); err != nil {
			return err
		}
		payoutID := payout.ID
		_, err = s.ledger.PostTx(tx, LedgerPosting{
			AffiliateID: locked.ID,
			EntryType:   constants.LedgerEntryPayoutHold,
			SourceKey:   payoutSourceKey(payout.ID),
			Amount:      -payout.Amount,
			PayoutID:    &payoutID,
			Memo:        payout.Reference,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Payouts.WithLabelValues(payout.Method, payout.Status).Inc()
	requestBalanceRefresh(s.refresher, payout.AffiliateID)
	return payout, nil
}

// Approve PENDING -> APPROVED
func (s *PayoutService) Approve(op Operator, payoutID uint) (*models.Payout, error) {
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		payout, err := repoTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}
		if payout.Status != constants.PayoutStatusPending {
			return ErrInvalidState
		}
		payout.Status = constants.PayoutStatusApproved
		payout.UpdatedAt = time.Now()
		if err := repoTx.Update(payout); err != nil {
			return err
		}
		return s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionPayoutApprove,
			TargetType: constants.AuditTargetPayout,
			TargetID:   payout.ID,
			Detail:     models.JSON{"reference": payout.Reference},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(payoutID)
}

// Process 调用渠道打款：成功 PAID，失败 FAILED 并释放冻结金额，不重试
// 先提交 SubmittedAt 占位再调用渠道，结果在第二个事务中落库；
// 已提交渠道的提现单不会再次发起打款。渠道失败时返回更新后的提现单与 ErrPayoutProviderFailed。
func (s *PayoutService) Process(ctx context.Context, op Operator, payoutID uint) (*models.Payout, error) {
	current, err := s.repo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrPayoutNotFound
	}
	rail, ok := s.rails[current.Method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPayoutRailUnavailable, current.Method)
	}

	claimed, err := s.claimForProcess(op, payoutID)
	if err != nil {
		return nil, err
	}

	receipt, sendErr := rail.Send(ctx, PayoutInstruction{
		Reference: claimed.Reference,
		Amount:    claimed.Amount,
		Currency:  claimed.Currency,
		Account:   claimed.Account,
		Note:      "Affiliate commission payout " + claimed.Reference,
	})
	var failure, providerRef string
	if sendErr != nil {
		failure = strings.TrimSpace(sendErr.Error())
	} else if receipt != nil {
		providerRef = receipt.ProviderRef
	}

	if err := s.recordOutcome(op, payoutID, providerRef, failure); err != nil {
		logger.Errorw("payout_process_record_failed",
			"payout_id", payoutID,
			"reference", claimed.Reference,
			"method", claimed.Method,
			"provider_ref", providerRef,
			"provider_error", failure,
			"error", err,
		)
		return nil, err
	}

	updated, err := s.repo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	metrics.Payouts.WithLabelValues(updated.Method, updated.Status).Inc()
	if failure != "" {
		logger.Warnw("payout_process_failed",
			"payout_id", updated.ID,
			"reference", updated.Reference,
			"method", updated.Method,
			"error", failure,
		)
		requestBalanceRefresh(s.refresher, updated.AffiliateID)
		return updated, fmt.Errorf("%w: %s", ErrPayoutProviderFailed, failure)
	}
	logger.Infow("payout_process_paid", "payout_id", updated.ID, "provider_ref", updated.ProviderRef)
	return updated, nil
}

// claimForProcess 标记提现单已提交渠道并提交事务
func (s *PayoutService) claimForProcess(op Operator, payoutID uint) (*models.Payout, error) {
	var claimed *models.Payout
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		payout, err := repoTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}
		if payout.Status != constants.PayoutStatusPending && payout.Status != constants.PayoutStatusApproved {
			return ErrInvalidState
		}
		if payout.SubmittedAt != nil {
			return ErrPayoutInFlight
		}
		now := time.Now()
		adminID := op.AdminID
		payout.SubmittedAt = &now
		payout.ProcessedBy = &adminID
		payout.UpdatedAt = now
		if err := repoTx.Update(payout); err != nil {
			return err
		}
		claimed = payout
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// recordOutcome 落库渠道结果；failure 非空时置 FAILED 并释放冻结金额
func (s *PayoutService) recordOutcome(op Operator, payoutID uint, providerRef, failure string) error {
	return s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		payout, err := repoTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}
		if payout.SubmittedAt == nil {
			return ErrInvalidState
		}
		now := time.Now()
		adminID := op.AdminID
		payout.ProcessedBy = &adminID
		payout.ProcessedAt = &now
		payout.UpdatedAt = now
		detail := models.JSON{"reference": payout.Reference, "method": payout.Method}
		if failure != "" {
			payout.Status = constants.PayoutStatusFailed
			payout.Notes = failure
			detail["error"] = failure
			if err := s.releaseHoldTx(tx, payout); err != nil {
				return err
			}
		} else {
			payout.Status = constants.PayoutStatusPaid
			payout.ProviderRef = providerRef
			detail["providerRef"] = providerRef
		}
		detail["status"] = payout.Status
		if err := repoTx.Update(payout); err != nil {
			return err
		}
		return s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionPayoutProcess,
			TargetType: constants.AuditTargetPayout,
			TargetID:   payout.ID,
			Detail:     detail,
		})
	})
}

// Reject PENDING -> REJECTED，原因必填，冻结金额退回余额
func (s *PayoutService) Reject(op Operator, payoutID uint, reason string) (*models.Payout, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}
	var affiliateID uint
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		payout, err := repoTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}
		if payout.Status != constants.PayoutStatusPending {
			return ErrInvalidState
		}
		if payout.SubmittedAt != nil {
			return ErrPayoutInFlight
		}
		now := time.Now()
		adminID := op.AdminID
		payout.Status = constants.PayoutStatusRejected
		payout.Notes = reason
		payout.ProcessedBy = &adminID
		payout.ProcessedAt = &now
		payout.UpdatedAt = now
		if err := repoTx.Update(payout); err != nil {
			return err
		}
		if err := s.releaseHoldTx(tx, payout); err != nil {
			return err
		}
		affiliateID = payout.AffiliateID
		return s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionPayoutReject,
			TargetType: constants.AuditTargetPayout,
			TargetID:   payout.ID,
			Detail:     models.JSON{"reference": payout.Reference, "reason": reason},
		})
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	metrics.Payouts.WithLabelValues(updated.Method, updated.Status).Inc()
	requestBalanceRefresh(s.refresher, affiliateID)
	return updated, nil
}

func (s *PayoutService) releaseHoldTx(tx *gorm.DB, payout *models.Payout) error {
	payoutID := payout.ID
	_, err := s.ledger.PostTx(tx, LedgerPosting{
		AffiliateID: payout.AffiliateID,
		EntryType:   constants.LedgerEntryPayoutRelease,
		SourceKey:   payoutSourceKey(payout.ID),
		Amount:      payout.Amount,
		PayoutID:    &payoutID,
		Memo:        payout.Status,
	})
	return err
}

// ListPending 待处理提现单（PENDING 与 APPROVED），按申请时间升序
func (s *PayoutService) ListPending(page, pageSize int) ([]models.Payout, int64, error) {
	return s.repo.List(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		Statuses: []string{constants.PayoutStatusPending, constants.PayoutStatusApproved},
	})
}

// ListAdmin 管理端查询提现单
func (s *PayoutService) ListAdmin(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	return s.repo.List(filter)
}

// ListForAffiliate 推广者查询自己的提现单
func (s *PayoutService) ListForAffiliate(userID uint, filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	affiliate, err := s.affiliateRepo.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if affiliate == nil {
		return nil, 0, ErrAffiliateNotFound
	}
	filter.AffiliateID = affiliate.ID
	return s.repo.List(filter)
}

// RailAvailable 渠道是否已配置
func (s *PayoutService) RailAvailable(method string) bool {
	_, ok := s.rails[strings.ToUpper(strings.TrimSpace(method))]
	return ok
}
