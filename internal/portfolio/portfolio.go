// Package portfolio implements the dividend dashboard's aggregation engine:
// a pure function that folds member, symbol, transaction, and dividend
// records into per-symbol and whole-portfolio statistics.
//
// The engine never fails. Unparseable dates, references to missing symbols,
// and zero or negative denominators all degrade to a defined zero value or
// are skipped. Callers recompute from scratch on every input change; data
// volumes are a household's history, so there is no incremental maintenance.
package portfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FilterAll is the member filter sentinel meaning "all household members".
const FilterAll = "all"

// dateLayout is the conventional record date format. Records whose date
// does not parse are excluded from monthly grouping but still counted in
// dividend totals.
const dateLayout = "2006-01-02"

// Member is one household participant. Members only drive UI selection;
// the computation itself keys on the member names carried by transactions
// and dividends.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Symbol is a tracked security with a manually maintained market price.
type Symbol struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
}

// Transaction is one buy (positive cost/shares) or sell (negative) lot.
// Member and Symbol are denormalized name references.
type Transaction struct {
	ID     string  `json:"id"`
	Member string  `json:"member"`
	Symbol string  `json:"symbol"`
	Cost   float64 `json:"cost"`
	Shares float64 `json:"shares"`
	Date   string  `json:"date"`
}

// Dividend is one dividend receipt event.
type Dividend struct {
	ID     string  `json:"id"`
	Member string  `json:"member"`
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// Input bundles the four record collections and the member filter for one
// computation. Collections are full snapshots, never diffs.
type Input struct {
	Members      []Member      `json:"members"`
	Symbols      []Symbol      `json:"symbols"`
	Dividends    []Dividend    `json:"dividends"`
	Transactions []Transaction `json:"transactions"`
	FilterMember string        `json:"filter_member"`
}

// Lot is one strictly-positive-cost purchase transaction, tracked
// individually for per-purchase recovery progress.
type Lot struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Cost        float64 `json:"cost"`
	Shares      float64 `json:"shares"`
	RecoveryPct float64 `json:"recovery_pct"`
}

// SymbolStats holds the aggregate for a single symbol under the filter.
type SymbolStats struct {
	Name                   string  `json:"name"`
	Cost                   float64 `json:"cost"`
	SharesHeld             float64 `json:"shares_held"`
	DividendsReceived      float64 `json:"dividends_received"`
	CurrentPrice           float64 `json:"current_price"`
	ReturnInclDividendsPct float64 `json:"return_incl_dividends_pct"`
	Lots                   []Lot   `json:"lots"`
}

// MonthlyDividend is the dividend total for one calendar month.
type MonthlyDividend struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// Stats is the derived analytics view consumed by the presentation layer.
type Stats struct {
	TotalDividends         float64           `json:"total_dividends"`
	TotalCost              float64           `json:"total_cost"`
	TotalMarketValue       float64           `json:"total_market_value"`
	RecoveryPct            float64           `json:"recovery_pct"`
	OverallReturnPct       float64           `json:"overall_return_pct"`
	PerSymbol              []SymbolStats     `json:"per_symbol"`
	Monthly                []MonthlyDividend `json:"monthly"`
	AverageMonthlyDividend float64           `json:"average_monthly_dividend"`
}

// Compute aggregates the input collections into portfolio statistics.
// It is deterministic and side-effect free: identical inputs yield
// identical Stats. PerSymbol follows the input symbol order; only symbols
// with positive net cost under the filter appear.
//
// Share and cost accumulation goes through decimal arithmetic so that
// summing many fractional quantities does not drift the way naive float
// addition does.
func Compute(in Input) Stats {
	roster := make(map[string]bool, len(in.Symbols))
	for _, s := range in.Symbols {
		roster[s.Name] = true
	}

	// Filter first; every downstream sum operates on the filtered subset.
	// Records referencing a symbol that is not in the roster are orphans
	// and contribute nothing.
	txsBySymbol := make(map[string][]Transaction)
	for _, tx := range in.Transactions {
		if !matchesFilter(in.FilterMember, tx.Member) || !roster[tx.Symbol] {
			continue
		}
		txsBySymbol[tx.Symbol] = append(txsBySymbol[tx.Symbol], tx)
	}
	divsBySymbol := make(map[string][]Dividend)
	for _, d := range in.Dividends {
		if !matchesFilter(in.FilterMember, d.Member) || !roster[d.Symbol] {
			continue
		}
		divsBySymbol[d.Symbol] = append(divsBySymbol[d.Symbol], d)
	}

	stats := Stats{
		PerSymbol: []SymbolStats{},
		Monthly:   []MonthlyDividend{},
	}

	// Dividend totals span every filtered, roster-valid dividend, even for
	// symbols that end up dropped from perSymbol. Cost and market value
	// totals are sums over the perSymbol partition so that
	// totalCost == sum(perSymbol.cost) holds for all inputs.
	totalDividends := decimal.Zero
	for _, divs := range divsBySymbol {
		for _, d := range divs {
			totalDividends = totalDividends.Add(decimal.NewFromFloat(d.Amount))
		}
	}

	totalCost := decimal.Zero
	totalMarketValue := decimal.Zero

	for _, sym := range in.Symbols {
		symTxs := txsBySymbol[sym.Name]
		if len(symTxs) == 0 {
			// A symbol with no transactions under the filter is excluded
			// regardless of its global activity.
			continue
		}

		cost := decimal.Zero
		shares := decimal.Zero
		for _, tx := range symTxs {
			cost = cost.Add(decimal.NewFromFloat(tx.Cost))
			shares = shares.Add(decimal.NewFromFloat(tx.Shares))
		}
		if !cost.IsPositive() {
			// Zero or negative net cost drops the symbol from the output
			// and from every portfolio-wide total, keeping the partition
			// invariant totalCost == sum(perSymbol.cost).
			continue
		}

		dividends := decimal.Zero
		for _, d := range divsBySymbol[sym.Name] {
			dividends = dividends.Add(decimal.NewFromFloat(d.Amount))
		}

		price := decimal.NewFromFloat(sym.CurrentPrice)
		marketValue := shares.Mul(price)

		ss := SymbolStats{
			Name:              sym.Name,
			Cost:              cost.InexactFloat64(),
			SharesHeld:        shares.InexactFloat64(),
			DividendsReceived: dividends.InexactFloat64(),
			CurrentPrice:      sym.CurrentPrice,
			Lots:              buildLots(symTxs, divsBySymbol[sym.Name], shares),
		}
		// cost is strictly positive here, the degenerate case is handled
		// by the continue above.
		ss.ReturnInclDividendsPct = marketValue.Add(dividends).Sub(cost).
			Div(cost).Mul(decimal.NewFromInt(100)).InexactFloat64()

		stats.PerSymbol = append(stats.PerSymbol, ss)
		totalCost = totalCost.Add(cost)
		totalMarketValue = totalMarketValue.Add(marketValue)
	}

	stats.TotalCost = totalCost.InexactFloat64()
	stats.TotalDividends = totalDividends.InexactFloat64()
	stats.TotalMarketValue = totalMarketValue.InexactFloat64()
	if totalCost.IsPositive() {
		stats.RecoveryPct = totalDividends.Div(totalCost).
			Mul(decimal.NewFromInt(100)).InexactFloat64()
		stats.OverallReturnPct = totalMarketValue.Add(totalDividends).Sub(totalCost).
			Div(totalCost).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	stats.Monthly, stats.AverageMonthlyDividend = groupMonthly(divsBySymbol, totalDividends)

	return stats
}

// buildLots returns the symbol's strictly-positive-cost transactions as
// lots, most recent first. Dividends received on or after a lot's date are
// attributed to the lot in proportion to its share of the current holding.
func buildLots(txs []Transaction, divs []Dividend, sharesHeld decimal.Decimal) []Lot {
	lots := make([]Lot, 0, len(txs))
	for _, tx := range txs {
		if tx.Cost <= 0 {
			// Sells reduce the symbol totals but never appear as lot rows.
			continue
		}
		lots = append(lots, Lot{
			ID:     tx.ID,
			Date:   tx.Date,
			Cost:   tx.Cost,
			Shares: tx.Shares,
		})
	}

	// Date descending; ties keep input order. The conventional YYYY-MM-DD
	// format orders correctly under string comparison.
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].Date > lots[j].Date
	})

	for i := range lots {
		lot := &lots[i]
		lotCost := decimal.NewFromFloat(lot.Cost)
		if !lotCost.IsPositive() || !sharesHeld.IsPositive() {
			continue
		}
		received := decimal.Zero
		for _, d := range divs {
			if d.Date >= lot.Date {
				received = received.Add(decimal.NewFromFloat(d.Amount))
			}
		}
		lot.RecoveryPct = received.
			Mul(decimal.NewFromFloat(lot.Shares).Div(sharesHeld)).
			Div(lotCost).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return lots
}

// groupMonthly buckets the filtered dividends by calendar year-month,
// sorted descending. Records with an unparseable date are skipped here and
// excluded from the average's denominator, but their amounts still count
// toward the dividend total.
func groupMonthly(divsBySymbol map[string][]Dividend, totalDividends decimal.Decimal) ([]MonthlyDividend, float64) {
	totals := make(map[string]decimal.Decimal)
	for _, divs := range divsBySymbol {
		for _, d := range divs {
			t, err := time.Parse(dateLayout, d.Date)
			if err != nil {
				continue
			}
			month := t.Format("2006-01")
			totals[month] = totals[month].Add(decimal.NewFromFloat(d.Amount))
		}
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	monthly := make([]MonthlyDividend, 0, len(months))
	for _, month := range months {
		monthly = append(monthly, MonthlyDividend{
			Month: month,
			Total: totals[month].InexactFloat64(),
		})
	}

	average := 0.0
	if len(months) > 0 {
		average = totalDividends.
			Div(decimal.NewFromInt(int64(len(months)))).InexactFloat64()
	}

	return monthly, average
}

// matchesFilter reports whether a record's member passes the filter.
// An empty filter behaves like FilterAll.
func matchesFilter(filter, member string) bool {
	return filter == "" || filter == FilterAll || filter == member
}
