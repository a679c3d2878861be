package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/constants"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/payment/paypal"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/payment/stripe"
)

// PayoutInstruction 打款指令
type PayoutInstruction struct {
	Reference string
	Amount    int64
	Currency  string
	Account   string
	Note      string
}

// PayoutReceipt 渠道受理结果
type PayoutReceipt struct {
	ProviderRef string
	Status      string
}

// PayoutRail 提现打款渠道
type PayoutRail interface {
	Method() string
	Send(ctx context.Context, instruction PayoutInstruction) (*PayoutReceipt, error)
}

// PaypalRail PayPal Payouts 渠道
type PaypalRail struct {
	cfg *paypal.Config
}

// NewPaypalRail 创建 PayPal 渠道
func NewPaypalRail(cfg config.PaypalPayoutConfig) *PaypalRail {
	return &PaypalRail{cfg: paypal.NormalizeConfig(paypal.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		BaseURL:      cfg.BaseURL,
		EmailSubject: cfg.EmailSubject,
	})}
}

func (r *PaypalRail) Method() string { return constants.PayoutMethodPaypal }

func (r *PaypalRail) Send(ctx context.Context, instruction PayoutInstruction) (*PayoutReceipt, error) {
	result, err := paypal.CreatePayout(ctx, r.cfg, paypal.PayoutInput{
		Reference: instruction.Reference,
		Amount:    instruction.Amount,
		Currency:  instruction.Currency,
		Receiver:  instruction.Account,
		Note:      instruction.Note,
	})
	if err != nil {
		return nil, err
	}
	return &PayoutReceipt{ProviderRef: result.BatchID, Status: result.Status}, nil
}

// StripeRail Stripe Transfers 渠道
type StripeRail struct {
	cfg *stripe.Config
}

// NewStripeRail 创建 Stripe 渠道
func NewStripeRail(cfg config.StripePayoutConfig) *StripeRail {
	return &StripeRail{cfg: stripe.NormalizeConfig(stripe.Config{
		SecretKey:  cfg.SecretKey,
		APIBaseURL: cfg.APIBaseURL,
	})}
}

func (r *StripeRail) Method() string { return constants.PayoutMethodStripe }

func (r *StripeRail) Send(ctx context.Context, instruction PayoutInstruction) (*PayoutReceipt, error) {
	result, err := stripe.CreateTransfer(ctx, r.cfg, stripe.TransferInput{
		Reference:   instruction.Reference,
		Amount:      instruction.Amount,
		Currency:    instruction.Currency,
		Destination: instruction.Account,
		Description: instruction.Note,
	})
	if err != nil {
		return nil, err
	}
	return &PayoutReceipt{ProviderRef: result.TransferID, Status: "paid"}, nil
}

// ManualBankRail 线下银行转账，由财务人员在系统外完成打款
type ManualBankRail struct{}

func (ManualBankRail) Method() string { return constants.PayoutMethodBankTransfer }

func (ManualBankRail) Send(_ context.Context, instruction PayoutInstruction) (*PayoutReceipt, error) {
	if strings.TrimSpace(instruction.Account) == "" {
		return nil, fmt.Errorf("bank account is empty")
	}
	return &PayoutReceipt{ProviderRef: "manual:" + instruction.Reference, Status: "recorded"}, nil
}

// BuildPayoutRails 按配置组装可用渠道，未配置凭据的渠道不注册
func BuildPayoutRails(cfg config.PayoutConfig) []PayoutRail {
	rails := []PayoutRail{ManualBankRail{}}
	if strings.TrimSpace(cfg.Paypal.ClientID) != "" && strings.TrimSpace(cfg.Paypal.ClientSecret) != "" {
		rails = append(rails, NewPaypalRail(cfg.Paypal))
	}
	if strings.TrimSpace(cfg.Stripe.SecretKey) != "" {
		rails = append(rails, NewStripeRail(cfg.Stripe))
	}
	return rails
}
