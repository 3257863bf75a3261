package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-valuation/internal/model"
)

// lot is an open purchase waiting to be consumed by later sales.
type lot struct {
	quantity     decimal.Decimal
	costPerShare float64 // USD, buy fees included
	openedAt     time.Time
}

// lotQueue holds the open lots of one ticker, oldest first.
type lotQueue []lot

// consume removes up to quantity shares from the front of the queue.
// It returns the USD cost of the consumed shares, the opening time of the first lot touched
// and the quantity that could not be matched against any lot.
func (q *lotQueue) consume(quantity decimal.Decimal) (cost float64, oldest time.Time, unmatched decimal.Decimal) {
	remaining := quantity
	for remaining.IsPositive() && len(*q) > 0 {
		front := &(*q)[0]
		if oldest.IsZero() {
			oldest = front.openedAt
		}

		take := decimal.Min(front.quantity, remaining)
		cost += take.InexactFloat64() * front.costPerShare
		front.quantity = front.quantity.Sub(take)
		remaining = remaining.Sub(take)

		if !front.quantity.IsPositive() {
			*q = (*q)[1:]
		}
	}
	return cost, oldest, remaining
}

// ComputeRealizedGains matches every SELL against the oldest open BUY lots of the same
// ticker and returns one record per SELL in chronological order.
//
// A SELL spanning several lots gets the quantity-weighted cost of all consumed lots, and its
// holding period starts at the oldest lot touched. Shares sold beyond the open lots are
// carried at zero cost and reported as UnmatchedQuantity; with no lot consumed at all the
// holding period is zero. Sell fees do not reduce the sale price.
func ComputeRealizedGains(trades []model.Trade, rates Rates) []model.RealizedGainRecord {
	queues := make(map[string]*lotQueue)
	records := []model.RealizedGainRecord{}

	for _, t := range chronological(trades) {
		ticker := normalizeTicker(t.Ticker)
		queue, ok := queues[ticker]
		if !ok {
			queue = &lotQueue{}
			queues[ticker] = queue
		}

		switch t.Action {
		case model.ActionBuy:
			if t.Quantity <= 0 {
				continue
			}
			totalUSD := rates.ToUSD(t.Quantity*t.PricePerShare+t.Fees, t.Currency)
			*queue = append(*queue, lot{
				quantity:     decimal.NewFromFloat(t.Quantity),
				costPerShare: totalUSD / t.Quantity,
				openedAt:     t.ExecutedAt,
			})
		case model.ActionSell:
			records = append(records, realize(t, ticker, queue, rates))
		}
	}

	return records
}

func realize(t model.Trade, ticker string, queue *lotQueue, rates Rates) model.RealizedGainRecord {
	cost, oldest, unmatched := queue.consume(decimal.NewFromFloat(t.Quantity))

	costBasis := 0.0
	if t.Quantity > 0 {
		costBasis = cost / t.Quantity
	}
	salePrice := rates.ToUSD(t.PricePerShare, t.Currency)

	holdingDays := 0
	if !oldest.IsZero() {
		holdingDays = daysBetween(oldest, t.ExecutedAt)
	}

	return model.RealizedGainRecord{
		TradeID:             t.ID,
		Ticker:              ticker,
		Quantity:            t.Quantity,
		CostBasis:           costBasis,
		SalePrice:           salePrice,
		RealizedGain:        t.Quantity * (salePrice - costBasis),
		RealizedGainPercent: percentChange(salePrice, costBasis),
		HoldingPeriodDays:   holdingDays,
		UnmatchedQuantity:   unmatched.InexactFloat64(),
		ClosedAt:            t.ExecutedAt,
	}
}

// TotalRealized sums the realized gain of every record.
func TotalRealized(records []model.RealizedGainRecord) float64 {
	total := 0.0
	for _, r := range records {
		total += r.RealizedGain
	}
	return total
}

// daysBetween counts whole calendar days from one UTC date to another.
func daysBetween(from, to time.Time) int {
	return int(truncateDay(to).Sub(truncateDay(from)).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
