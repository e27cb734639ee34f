package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/openswap/swapex/controllers/entities"
)

// Order is a signed intent to swap SellAmount of SellCurrency for BuyAmount
// of BuyCurrency. While Filled is null the order rests on the book and is a
// match candidate; once Filled is set the order is closed for good and
// CounterpartyID points at the order it was matched against. Orders created
// as the remainder of a partial fill carry CreatorID.
type Order struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	UUID           uuid.UUID       `json:"uuid"`
	SenderPK       string          `json:"sender_pk" validate:"required"`
	ReceiverPK     string          `json:"receiver_pk" validate:"required"`
	BuyCurrency    string          `json:"buy_currency" validate:"required"`
	SellCurrency   string          `json:"sell_currency" validate:"required|SellCurrencyVaildator"`
	BuyAmount      decimal.Decimal `json:"buy_amount" validate:"BuyAmountVaildator"`
	SellAmount     decimal.Decimal `json:"sell_amount" validate:"SellAmountVaildator"`
	Filled         null.Time       `json:"filled" gorm:"type:timestamp"`
	CounterpartyID null.Int64      `json:"counterparty_id" gorm:"type:bigint"`
	CreatorID      null.Int64      `json:"creator_id" gorm:"type:bigint"`
	Signature      string          `json:"signature"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (o Order) Message() map[string]string {
	invalid_message := "market.order.invalid_{field}"

	return validate.MS{
		"required":              invalid_message,
		"BuyAmountVaildator":    "market.order.non_positive_buy_amount",
		"SellAmountVaildator":   "market.order.non_positive_sell_amount",
		"SellCurrencyVaildator": "market.order.same_currency_pair",
	}
}

func (o Order) BuyAmountVaildator(BuyAmount decimal.Decimal) bool {
	return BuyAmount.IsPositive()
}

func (o Order) SellAmountVaildator(SellAmount decimal.Decimal) bool {
	return SellAmount.IsPositive()
}

func (o Order) SellCurrencyVaildator(SellCurrency string) bool {
	return SellCurrency != o.BuyCurrency
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}

	return nil
}

// Resting reports whether the order is still open on the book.
func (o *Order) Resting() bool {
	return !o.Filled.Valid
}

// ImpliedRate is the price the order demands: BuyAmount per unit of
// SellAmount given up. Candidate filtering in the matching engine compares
// rates by cross-multiplication instead, which stays exact.
func (o *Order) ImpliedRate() decimal.Decimal {
	return o.BuyAmount.Div(o.SellAmount)
}

func (o *Order) ToEntity() entities.OrderEntity {
	return entities.OrderEntity{
		SenderPK:     o.SenderPK,
		ReceiverPK:   o.ReceiverPK,
		BuyCurrency:  o.BuyCurrency,
		SellCurrency: o.SellCurrency,
		BuyAmount:    o.BuyAmount,
		SellAmount:   o.SellAmount,
		Signature:    o.Signature,
	}
}
