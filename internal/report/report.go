// Package report summarizes a portfolio's holdings and valuation.
package report

import (
	"context"
	"fmt"
	"strings"

	"stockledger/internal/ledger"

	"github.com/shopspring/decimal"
)

type Row struct {
	Symbol string          `json:"symbol"`
	Shares int64           `json:"shares"`
	Lots   []ledger.Lot    `json:"lots"`
	Cost   decimal.Decimal `json:"cost"`
	Value  decimal.Decimal `json:"current_value"`
	Profit decimal.Decimal `json:"profit"`
	Error  string          `json:"error,omitempty"`
}

type Report struct {
	Portfolio string          `json:"portfolio"`
	Rows      []Row           `json:"items"`
	Cost      decimal.Decimal `json:"total_cost"`
	Value     decimal.Decimal `json:"total_value"`
	Profit    decimal.Decimal `json:"total_profit"`
	// Complete is false when some symbol could not be priced; totals then
	// only cover the priced symbols.
	Complete bool `json:"complete"`
}

// Build values every holding of l. A symbol whose price is unavailable is
// reported with its error instead of failing the whole report.
func Build(ctx context.Context, l *ledger.Ledger) Report {
	r := Report{Portfolio: l.Name(), Rows: []Row{}, Complete: true}
	for _, s := range l.Symbols() {
		row := Row{Symbol: s, Lots: l.Lots(s)}
		for _, lot := range row.Lots {
			row.Shares += lot.Amount
		}
		cost, _ := l.CostOf(s)
		row.Cost = decimal.NewFromFloat(cost)

		value, err := l.ValueOf(ctx, s)
		if err != nil {
			row.Error = err.Error()
			r.Complete = false
			r.Rows = append(r.Rows, row)
			continue
		}
		row.Value = decimal.NewFromFloat(value)
		row.Profit = row.Value.Sub(row.Cost)

		r.Cost = r.Cost.Add(row.Cost)
		r.Value = r.Value.Add(row.Value)
		r.Profit = r.Profit.Add(row.Profit)
		r.Rows = append(r.Rows, row)
	}
	return r
}

// Markdown renders the report as a markdown table.
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio %s\n\n", r.Portfolio)
	if len(r.Rows) == 0 {
		b.WriteString("No holdings.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Shares | Lots | Cost | Value | Profit |\n")
	b.WriteString("|:--|--:|--:|--:|--:|--:|\n")
	for _, row := range r.Rows {
		if row.Error != "" {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | n/a | n/a |\n", row.Symbol, row.Shares, len(row.Lots), row.Cost.StringFixed(2))
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s |\n", row.Symbol, row.Shares, len(row.Lots),
			row.Cost.StringFixed(2), row.Value.StringFixed(2), row.Profit.StringFixed(2))
	}
	fmt.Fprintf(&b, "| **Total** | | | %s | %s | %s |\n", r.Cost.StringFixed(2), r.Value.StringFixed(2), r.Profit.StringFixed(2))

	if !r.Complete {
		b.WriteString("\nSome prices are unavailable, totals are partial:\n\n")
		for _, row := range r.Rows {
			if row.Error != "" {
				fmt.Fprintf(&b, "- %s: %s\n", row.Symbol, row.Error)
			}
		}
	}
	return b.String()
}
