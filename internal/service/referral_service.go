package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/metrics"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/models"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/repository"

	"gorm.io/gorm"
)

// 退款未处理原因
const (
	RefundReasonNoReferral        = "no referral found for this user"
	RefundReasonNotConverted      = "referral is not in CONVERTED status"
	RefundReasonReferenceMismatch = "reference does not match the converted transaction"
)

// ReferralService 推荐归因与佣金服务
type ReferralService struct {
	affiliateRepo repository.AffiliateRepository
	referralRepo  repository.ReferralRepository
	userRepo      repository.UserRepository
	ledger        *LedgerService
	audit         *AuditService
	affiliates    *AffiliateService
	tokens        *ReferralTokenService
	refresher     BalanceRefresher
	currency      string
}

// ReferralServiceOptions 推荐服务依赖
type ReferralServiceOptions struct {
	AffiliateRepo repository.AffiliateRepository
	ReferralRepo  repository.ReferralRepository
	UserRepo      repository.UserRepository
	Ledger        *LedgerService
	Audit         *AuditService
	Affiliates    *AffiliateService
	Tokens        *ReferralTokenService
	Refresher     BalanceRefresher
	Currency      string
}

// NewReferralService 创建推荐服务
func NewReferralService(opts ReferralServiceOptions) *ReferralService {
	currency := strings.ToUpper(strings.TrimSpace(opts.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	return &ReferralService{
		affiliateRepo: opts.AffiliateRepo,
		referralRepo:  opts.ReferralRepo,
		userRepo:      opts.UserRepo,
		ledger:        opts.Ledger,
		audit:         opts.Audit,
		affiliates:    opts.Affiliates,
		tokens:        opts.Tokens,
		refresher:     opts.Refresher,
		currency:      currency,
	}
}

// ConversionInput 转化输入
type ConversionInput struct {
	UserID    uint
	Reference string
	Amount    int64
	Currency  string
}

// RefundInput 退款/拒付输入
type RefundInput struct {
	UserID      uint
	ReferenceID string
	Type        string
}

// RefundResult 退款处理结果；Processed=false 时 Reason 说明原因
type RefundResult struct {
	Processed           bool   `json:"processed"`
	Reason              string `json:"reason,omitempty"`
	ReferralID          uint   `json:"referralId,omitempty"`
	AffiliateID         uint   `json:"affiliateId,omitempty"`
	Adjustment          int64  `json:"adjustment"`
	AdjustmentFormatted string `json:"adjustmentFormatted,omitempty"`
}

// TrackReferral 将被推荐用户归属到推广码对应的推广账户
func (s *ReferralService) TrackReferral(rawCode string, referredUserID uint, source string) (*models.Referral, error) {
	code := normalizeAffiliateCode(rawCode)
	if code == "" {
		return nil, ErrAffiliateNotFound
	}
	if referredUserID == 0 {
		return nil, ErrNotFound
	}
	if s.userRepo != nil {
		user, err := s.userRepo.GetByID(referredUserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = constants.ReferralSourceManual
	}

	affiliate, err := s.affiliateRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if affiliate == nil || affiliate.Status != constants.AffiliateStatusActive {
		return nil, ErrAffiliateNotFound
	}
	if affiliate.UserID == referredUserID {
		return nil, ErrSelfReferral
	}
	existing, err := s.referralRepo.GetByReferredUserID(referredUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReferred
	}

	referral := &models.Referral{
		AffiliateID:    affiliate.ID,
		ReferredUserID: referredUserID,
		Status:         constants.ReferralStatusPending,
		Source:         source,
		Currency:       s.currency,
	}
	if err := s.referralRepo.Create(referral); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyReferred
		}
		return nil, err
	}
	metrics.ReferralsTracked.WithLabelValues(source).Inc()
	return referral, nil
}

// IssueReferralToken 记录访问并签发推荐令牌
func (s *ReferralService) IssueReferralToken(input TrackClickInput) (string, *ReferralData, error) {
	affiliate, err := s.affiliates.TrackClick(input)
	if err != nil {
		return "", nil, err
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = constants.ReferralSourceLink
	}
	return s.tokens.Issue(affiliate.Code, source)
}

// AttributeSignup 使用推荐令牌为用户建立推荐关系
func (s *ReferralService) AttributeSignup(userID uint, token string) (*models.Referral, error) {
	data, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	source := data.Source
	if source == "" {
		source = constants.ReferralSourceSignup
	}
	return s.TrackReferral(data.Code, userID, source)
}

// ConvertReferral PENDING -> CONVERTED，按推广账户当前佣金比例计算佣金并入账
// 同一交易号重复调用返回已转化记录。
func (s *ReferralService) ConvertReferral(op Operator, input ConversionInput) (*models.Referral, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, ErrConversionRefRequired
	}
	if input.Amount <= 0 {
		return nil, ErrConversionAmountInvalid
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.currency
	}
	if currency != s.currency {
		return nil, fmt.Errorf("%w: currency %s not supported", ErrConversionAmountInvalid, currency)
	}

	var result *models.Referral
	converted := false
	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		referralRepo := s.referralRepo.WithTx(tx)
		referral, err := referralRepo.GetByReferredUserIDForUpdate(input.UserID)
		if err != nil {
			return err
		}
		if referral == nil {
			return ErrReferralNotFound
		}
		if referral.Status == constants.ReferralStatusConverted && referral.ConversionReference == reference {
			result = referral
			return nil
		}
		if referral.Status != constants.ReferralStatusPending {
			return ErrReferralStateInvalid
		}
		affiliate, err := s.affiliateRepo.WithTx(tx).GetByIDForUpdate(referral.AffiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return ErrAffiliateNotFound
		}

		now := time.Now()
		referral.Status = constants.ReferralStatusConverted
		referral.ConversionValue = input.Amount
		referral.Commission = affiliate.CommissionRate.ApplyTo(input.Amount)
		referral.Currency = currency
		referral.ConversionReference = reference
		referral.ConvertedAt = &now
		referral.UpdatedAt = now
		if err := referralRepo.Update(referral); err != nil {
			return err
		}
		if referral.Commission > 0 {
			referralID := referral.ID
			if _, err := s.ledger.PostTx(tx, LedgerPosting{
				AffiliateID: referral.AffiliateID,
				EntryType:   constants.LedgerEntryCommissionCredit,
				SourceKey:   referralSourceKey(referral.ID),
				Amount:      referral.Commission,
				ReferralID:  &referralID,
				Memo:        reference,
			}); err != nil {
				return err
			}
		}
		if err := s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionCommissionConvert,
			TargetType: constants.AuditTargetReferral,
			TargetID:   referral.ID,
			Detail: models.JSON{
				"reference":  reference,
				"amount":     input.Amount,
				"commission": referral.Commission,
				"rate":       affiliate.CommissionRate.String(),
			},
		}); err != nil {
			return err
		}
		result = referral
		converted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if converted {
		metrics.ReferralsConverted.Inc()
		requestBalanceRefresh(s.refresher, result.AffiliateID)
	}
	return result, nil
}

// ProcessRefund 退款或拒付时全额冲正佣金；不满足条件时返回 Processed=false
func (s *ReferralService) ProcessRefund(op Operator, input RefundInput) (*RefundResult, error) {
	refundType := strings.ToLower(strings.TrimSpace(input.Type))
	if refundType != constants.CommissionAdjustRefund && refundType != constants.CommissionAdjustChargeback {
		return nil, ErrRefundTypeInvalid
	}
	referenceID := strings.TrimSpace(input.ReferenceID)

	result := &RefundResult{}
	err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
		referralRepo := s.referralRepo.WithTx(tx)
		referral, err := referralRepo.GetByReferredUserIDForUpdate(input.UserID)
		if err != nil {
			return err
		}
		if referral == nil {
			result.Reason = RefundReasonNoReferral
			return nil
		}
		result.ReferralID = referral.ID
		result.AffiliateID = referral.AffiliateID
		if referral.Status != constants.ReferralStatusConverted {
			result.Reason = RefundReasonNotConverted
			return nil
		}
		if referral.ConversionReference == "" || referral.ConversionReference != referenceID {
			result.Reason = RefundReasonReferenceMismatch
			return nil
		}
		// 锁定推广账户，与提现申请串行
		if _, err := s.affiliateRepo.WithTx(tx).GetByIDForUpdate(referral.AffiliateID); err != nil {
			return err
		}

		reversed := referral.Commission
		now := time.Now()
		referral.Status = constants.ReferralStatusCanceled
		referral.Commission = 0
		referral.CancelType = refundType
		referral.CanceledAt = &now
		referral.UpdatedAt = now
		if err := referralRepo.Update(referral); err != nil {
			return err
		}
		if reversed > 0 {
			referralID := referral.ID
			if _, err := s.ledger.PostTx(tx, LedgerPosting{
				AffiliateID: referral.AffiliateID,
				EntryType:   constants.LedgerEntryCommissionReversal,
				SourceKey:   referralSourceKey(referral.ID),
				Amount:      -reversed,
				ReferralID:  &referralID,
				Memo:        refundType + ":" + referenceID,
			}); err != nil {
				return err
			}
		}
		if err := s.audit.RecordTx(tx, AuditRecordInput{
			Operator:   op,
			Action:     constants.AuditActionCommissionRefund,
			TargetType: constants.AuditTargetReferral,
			TargetID:   referral.ID,
			Detail: models.JSON{
				"type":        refundType,
				"referenceId": referenceID,
				"adjustment":  -reversed,
			},
		}); err != nil {
			return err
		}
		result.Processed = true
		result.Adjustment = -reversed
		result.AdjustmentFormatted = models.FormatMinorAmount(-reversed, referral.Currency)
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RefundOutcome(refundType, result.Processed)
	if result.Processed {
		logger.Infow("affiliate_commission_reversed",
			"referral_id", result.ReferralID,
			"affiliate_id", result.AffiliateID,
			"type", refundType,
			"adjustment", result.Adjustment,
		)
		requestBalanceRefresh(s.refresher, result.AffiliateID)
	} else {
		// 未处理时只回报原因，不暴露推荐记录
		result.ReferralID = 0
		result.AffiliateID = 0
	}
	return result, nil
}

// ListForAffiliate 推广者查询自己的推荐记录
func (s *ReferralService) ListForAffiliate(userID uint, filter repository.ReferralListFilter) ([]models.Referral, int64, error) {
	affiliate, err := s.affiliateRepo.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if affiliate == nil {
		return nil, 0, ErrAffiliateNotFound
	}
	filter.AffiliateID = affiliate.ID
	return s.referralRepo.List(filter)
}

// ListAdmin 管理端查询推荐记录
func (s *ReferralService) ListAdmin(filter repository.ReferralListFilter) ([]models.Referral, int64, error) {
	return s.referralRepo.List(filter)
}
