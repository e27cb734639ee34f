package helpers

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/openswap/swapex/models"
)

type TradePayloadParams struct {
	SenderPK     string          `json:"sender_pk" validate:"required"`
	ReceiverPK   string          `json:"receiver_pk" validate:"required"`
	BuyCurrency  string          `json:"buy_currency" validate:"required"`
	SellCurrency string          `json:"sell_currency" validate:"required"`
	BuyAmount    decimal.Decimal `json:"buy_amount" validate:"VaildateBuyAmount"`
	SellAmount   decimal.Decimal `json:"sell_amount" validate:"VaildateSellAmount"`
	Platform     string          `json:"platform" validate:"required"`
}

func (p TradePayloadParams) Messages() map[string]string {
	invalid_message := "market.trade.invalid_{field}"

	return validate.MS{
		"required":           invalid_message,
		"VaildateBuyAmount":  "market.trade.non_positive_buy_amount",
		"VaildateSellAmount": "market.trade.non_positive_sell_amount",
	}
}

func (p TradePayloadParams) VaildateBuyAmount(BuyAmount decimal.Decimal) bool {
	return BuyAmount.IsPositive()
}

func (p TradePayloadParams) VaildateSellAmount(SellAmount decimal.Decimal) bool {
	return SellAmount.IsPositive()
}

// Payload is excluded from the parent validation pass: gookit resolves
// custom validator names against the struct being validated, so the nested
// struct is validated separately with its own methods in scope.
type CreateTradeParams struct {
	Sig     string             `json:"sig" validate:"required"`
	Payload TradePayloadParams `json:"payload" validate:"-"`
}

func (p CreateTradeParams) Messages() map[string]string {
	return validate.MS{
		"required": "market.trade.invalid_{field}",
	}
}

// BuildOrder turns a verified submission into an unsaved resting order and
// validates it against the order invariants.
func (p CreateTradeParams) BuildOrder(err_src *Errors) *models.Order {
	order := &models.Order{
		SenderPK:     p.Payload.SenderPK,
		ReceiverPK:   p.Payload.ReceiverPK,
		BuyCurrency:  p.Payload.BuyCurrency,
		SellCurrency: p.Payload.SellCurrency,
		BuyAmount:    p.Payload.BuyAmount,
		SellAmount:   p.Payload.SellAmount,
		Signature:    p.Sig,
	}

	Vaildate(order, err_src)

	return order
}
