// Package pricing - Static price table
// The table is compiled into the binary and never changes at runtime.
package pricing

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"commodity-price/core/types"
	"commodity-price/internal/errors"
)

//go:embed prices.hcl
var embeddedTable []byte

// EmbeddedFilename is the name diagnostics report for the embedded table
const EmbeddedFilename = "prices.hcl"

// tableFile is the HCL shape of a price table
type tableFile struct {
	AsOf        string           `hcl:"as_of"`
	Source      string           `hcl:"source,optional"`
	Commodities []commodityBlock `hcl:"commodity,block"`
}

type commodityBlock struct {
	Name   string            `hcl:"name,label"`
	Unit   string            `hcl:"unit,optional"`
	Prices map[string]string `hcl:"prices"`
}

// Key identifies one entry of the table
type Key struct {
	Commodity types.Commodity
	Currency  types.Currency
}

// String returns "commodity/CURRENCY"
func (k Key) String() string {
	return string(k.Commodity) + "/" + string(k.Currency)
}

// Quote is one resolved table entry
type Quote struct {
	Commodity types.Commodity `json:"commodity"`
	Currency  types.Currency  `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Unit      string          `json:"unit"`
	AsOf      string          `json:"as_of"`
}

// Output renders the amount the way the step publishes it
func (q Quote) Output() string {
	return q.Amount.StringFixed(2)
}

// String renders amount and currency, e.g. "2652.84 USD"
func (q Quote) String() string {
	return q.Output() + " " + string(q.Currency)
}

// Table is an immutable (commodity, currency) -> price mapping
type Table struct {
	quotes map[Key]Quote
	asOf   string
	source string
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table embedded at build time.
// It panics if the embedded file is invalid.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(EmbeddedFilename, embeddedTable)
		if err != nil {
			panic(fmt.Sprintf("embedded price table is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load decodes and validates an HCL price table.
// Every (commodity, currency) pair of the supported sets must be present exactly once.
func Load(filename string, src []byte) (*Table, error) {
	var file tableFile
	if err := hclsimple.Decode(filename, src, nil, &file); err != nil {
		return nil, errors.Config("failed to decode price table", err)
	}

	t := &Table{
		quotes: make(map[Key]Quote),
		asOf:   file.AsOf,
		source: file.Source,
	}

	var problems *multierror.Error
	for _, block := range file.Commodities {
		commodity, err := types.ParseCommodity(block.Name)
		if err != nil {
			problems = errors.Collect(problems, err)
			continue
		}

		unit := block.Unit
		if unit == "" {
			unit = "troy_ounce"
		}

		for rawCurrency, rawAmount := range block.Prices {
			currency, err := types.ParseCurrency(rawCurrency)
			if err != nil {
				problems = errors.Collect(problems, fmt.Errorf("%s: %w", commodity, err))
				continue
			}

			amount, err := decimal.NewFromString(rawAmount)
			if err != nil {
				problems = errors.Collect(problems, fmt.Errorf("%s/%s: invalid amount %q", commodity, currency, rawAmount))
				continue
			}
			if !amount.IsPositive() {
				problems = errors.Collect(problems, fmt.Errorf("%s/%s: amount must be positive, got %s", commodity, currency, rawAmount))
				continue
			}

			key := Key{Commodity: commodity, Currency: currency}
			if _, dup := t.quotes[key]; dup {
				problems = errors.Collect(problems, fmt.Errorf("%s: duplicate entry", key))
				continue
			}

			t.quotes[key] = Quote{
				Commodity: commodity,
				Currency:  currency,
				Amount:    amount,
				Unit:      unit,
				AsOf:      file.AsOf,
			}
		}
	}

	for _, c := range types.Commodities() {
		for _, cur := range types.Currencies() {
			key := Key{Commodity: c, Currency: cur}
			if _, ok := t.quotes[key]; !ok {
				problems = errors.Collect(problems, fmt.Errorf("%s: missing entry", key))
			}
		}
	}

	if err := problems.ErrorOrNil(); err != nil {
		return nil, errors.Config("invalid price table "+filename, err)
	}
	return t, nil
}

// Lookup resolves the price for a validated pair
func (t *Table) Lookup(commodity types.Commodity, currency types.Currency) (Quote, error) {
	key := Key{Commodity: commodity, Currency: currency}
	q, ok := t.quotes[key]
	if !ok {
		return Quote{}, errors.NotFound("price", key.String())
	}
	return q, nil
}

// Quotes returns every entry sorted by commodity then currency order
func (t *Table) Quotes() []Quote {
	out := make([]Quote, 0, len(t.quotes))
	for _, q := range t.quotes {
		out = append(out, q)
	}

	rank := func(q Quote) (int, int) {
		ci, ri := 0, 0
		for i, c := range types.Commodities() {
			if c == q.Commodity {
				ci = i
			}
		}
		for i, c := range types.Currencies() {
			if c == q.Currency {
				ri = i
			}
		}
		return ci, ri
	}

	sort.Slice(out, func(i, j int) bool {
		ci, ri := rank(out[i])
		cj, rj := rank(out[j])
		if ci != cj {
			return ci < cj
		}
		return ri < rj
	})
	return out
}

// AsOf is the date the constants were last refreshed
func (t *Table) AsOf() string {
	return t.asOf
}

// Source is where the constants were read from by hand
func (t *Table) Source() string {
	return t.source
}
