package matching

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/openswap/swapex/config"
	"github.com/openswap/swapex/models"
)

// ErrStoreUnavailable wraps store failures that aborted a submission. The
// submission committed no match state and may be retried by the caller.
var ErrStoreUnavailable = errors.New("matching: order store unavailable")

var (
	errCandidateClaimed = errors.New("matching: candidate claimed by concurrent submission")
	errOrderClaimed     = errors.New("matching: order claimed by concurrent submission")
)

// Engine matches incoming orders against resting orders held in the store.
// All order state lives in the database; the engine keeps nothing in memory,
// so any number of submissions may run concurrently. A resting order can be
// claimed by at most one transaction because every fill is a compare-and-set
// against `filled IS NULL`.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Result is the outcome of a single submission.
type Result struct {
	OrderID          int64
	Matched          bool
	CounterpartyID   null.Int64
	ChildOrderID     null.Int64
	FilledBuyAmount  decimal.Decimal
	FilledSellAmount decimal.Decimal
}

// Submit persists the order on the book and tries to match it against the
// most favorable resting counter-order. The initial insert is deliberately
// outside the match transaction: if matching fails the order still rests and
// stays valid. At most one child order is created for the unfilled remainder
// of a partial fill; children rest until a future submission and are never
// re-matched within the same call.
func (e *Engine) Submit(order *models.Order) (*Result, error) {
	if err := e.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	candidates, err := e.findCandidates(order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	for i := range candidates {
		result, err := e.match(order, &candidates[i])
		switch {
		case err == nil:
			config.Logger.Infof("order %d matched with %d", result.OrderID, candidates[i].ID)
			return result, nil
		case errors.Is(err, errCandidateClaimed):
			// Lost the race for this candidate, try the next-best one.
			continue
		case errors.Is(err, errOrderClaimed):
			return e.resolveClaimed(order)
		default:
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	config.Logger.Debugf("order %d rests unmatched", order.ID)
	return &Result{OrderID: order.ID}, nil
}

// findCandidates returns the resting orders on the exact reciprocal currency
// pair that are priced at least as favorably as the incoming order demands,
// deepest liquidity first, earliest order winning ties.
func (e *Engine) findCandidates(order *models.Order) ([]models.Order, error) {
	var resting []models.Order

	err := e.db.
		Where("filled IS NULL AND buy_currency = ? AND sell_currency = ? AND id <> ?",
			order.SellCurrency, order.BuyCurrency, order.ID).
		Find(&resting).Error
	if err != nil {
		return nil, err
	}

	candidates := resting[:0]
	for _, candidate := range resting {
		if acceptsRate(&candidate, order) {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		switch candidates[i].SellAmount.Cmp(candidates[j].SellAmount) {
		case 1:
			return true
		case -1:
			return false
		default:
			return candidates[i].ID < candidates[j].ID
		}
	})

	return candidates, nil
}

// acceptsRate reports whether candidate c gives up at least as much per unit
// received as order n demands: c.sell/c.buy >= n.buy/n.sell. Compared by
// cross-multiplication so repeated partial fills never lose precision to
// division.
func acceptsRate(c, n *models.Order) bool {
	return c.SellAmount.Mul(n.SellAmount).Cmp(n.BuyAmount.Mul(c.BuyAmount)) >= 0
}

// match closes order n against candidate c in one transaction. Both fills
// are compare-and-set guarded; if either side was already filled by a
// concurrent submission the whole transaction rolls back, so a half-matched
// pair is never observable.
func (e *Engine) match(n, c *models.Order) (*Result, error) {
	now := time.Now()

	result := &Result{
		OrderID:          n.ID,
		Matched:          true,
		CounterpartyID:   null.Int64From(c.ID),
		FilledBuyAmount:  decimal.Min(n.BuyAmount, c.SellAmount),
		FilledSellAmount: decimal.Min(n.SellAmount, c.BuyAmount),
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.Order{}).
			Where("id = ? AND filled IS NULL", c.ID).
			Updates(map[string]interface{}{"filled": now, "counterparty_id": n.ID})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return errCandidateClaimed
		}

		claim = tx.Model(&models.Order{}).
			Where("id = ? AND filled IS NULL", n.ID).
			Updates(map[string]interface{}{"filled": now, "counterparty_id": c.ID})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return errOrderClaimed
		}

		if child := childOrder(n, c); child != nil {
			if err := tx.Create(child).Error; err != nil {
				return err
			}
			result.ChildOrderID = null.Int64From(child.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	n.Filled = null.TimeFrom(now)
	n.CounterpartyID = null.Int64From(c.ID)

	return result, nil
}

// childOrder computes the resting remainder of a partial fill, or nil when
// the two orders fill each other exactly. The child continues the
// under-filled side's original offer at its original rate.
func childOrder(n, c *models.Order) *models.Order {
	switch n.BuyAmount.Cmp(c.SellAmount) {
	case 0:
		return nil
	case 1:
		// The candidate could not cover the incoming order; the child
		// continues n's direction.
		buy := n.BuyAmount.Sub(c.BuyAmount)
		sell := buy.Mul(n.SellAmount).Div(n.BuyAmount)
		if !buy.IsPositive() || !sell.IsPositive() {
			return nil
		}

		return &models.Order{
			SenderPK:     n.SenderPK,
			ReceiverPK:   n.ReceiverPK,
			BuyCurrency:  n.BuyCurrency,
			SellCurrency: n.SellCurrency,
			BuyAmount:    buy,
			SellAmount:   sell,
			CreatorID:    null.Int64From(n.ID),
		}
	default:
		// The candidate had liquidity left over; the child continues c's
		// original offer, currencies swapped relative to n.
		buy := c.BuyAmount.Sub(n.SellAmount)
		sell := buy.Mul(c.SellAmount).Div(c.BuyAmount)
		if !buy.IsPositive() || !sell.IsPositive() {
			return nil
		}

		return &models.Order{
			SenderPK:     c.SenderPK,
			ReceiverPK:   c.ReceiverPK,
			BuyCurrency:  c.BuyCurrency,
			SellCurrency: c.SellCurrency,
			BuyAmount:    buy,
			SellAmount:   sell,
			CreatorID:    null.Int64From(c.ID),
		}
	}
}

// resolveClaimed reports the outcome of an order that a concurrent
// submission matched while this call was still selecting a candidate.
func (e *Engine) resolveClaimed(order *models.Order) (*Result, error) {
	var n models.Order
	if err := e.db.First(&n, order.ID).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	*order = n

	result := &Result{
		OrderID:        n.ID,
		Matched:        true,
		CounterpartyID: n.CounterpartyID,
	}

	var c models.Order
	if err := e.db.First(&c, n.CounterpartyID.Int64).Error; err == nil {
		result.FilledBuyAmount = decimal.Min(n.BuyAmount, c.SellAmount)
		result.FilledSellAmount = decimal.Min(n.SellAmount, c.BuyAmount)
	}

	return result, nil
}
