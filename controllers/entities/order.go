package entities

import (
	"github.com/shopspring/decimal"
)

type OrderEntity struct {
	SenderPK     string          `json:"sender_pk"`
	ReceiverPK   string          `json:"receiver_pk"`
	BuyCurrency  string          `json:"buy_currency"`
	SellCurrency string          `json:"sell_currency"`
	BuyAmount    decimal.Decimal `json:"buy_amount"`
	SellAmount   decimal.Decimal `json:"sell_amount"`
	Signature    string          `json:"signature"`
}

type OrderBookEntity struct {
	Data []OrderEntity `json:"data"`
}
