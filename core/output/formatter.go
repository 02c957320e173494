// Package output renders price quotes for humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"commodity-price/core/pricing"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable box table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown table for step summaries
	FormatMarkdown Format = "markdown"
)

// staticNotice is appended to human-readable reports
const staticNotice = "Prices are manually maintained constants, not live market data."

// Report is the set of quotes to render
type Report struct {
	// Title is printed above markdown output
	Title string `json:"-"`

	// AsOf is the date the quotes were valid
	AsOf string `json:"as_of"`

	// Source is where the quotes were taken from
	Source string `json:"source,omitempty"`

	// Quotes are rendered in order
	Quotes []pricing.Quote `json:"quotes"`
}

// NewReport builds a report covering every quote in the table
func NewReport(table *pricing.Table) *Report {
	return &Report{
		AsOf:   table.AsOf(),
		Source: table.Source(),
		Quotes: table.Quotes(),
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report to w
	Render(w io.Writer, report *Report) error
}

// ForFormat returns the formatter for a format name
func ForFormat(name string) (Formatter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatTable:
		return TableFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatMarkdown:
		return MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use table, json or markdown)", name)
	}
}

// TableFormatter draws a box table
type TableFormatter struct{}

func (TableFormatter) Format() Format { return FormatTable }

func (TableFormatter) Render(w io.Writer, report *Report) error {
	var sb strings.Builder
	sb.WriteString("┌────────────┬──────────┬────────────────┐\n")
	sb.WriteString("│ Commodity  │ Currency │ Price / ounce  │\n")
	sb.WriteString("├────────────┼──────────┼────────────────┤\n")
	for _, q := range report.Quotes {
		fmt.Fprintf(&sb, "│ %-10s │ %-8s │ %14s │\n", q.Commodity, q.Currency, q.Output())
	}
	sb.WriteString("└────────────┴──────────┴────────────────┘\n")
	fmt.Fprintf(&sb, "Quoted as of %s. %s\n", report.AsOf, staticNotice)

	_, err := io.WriteString(w, sb.String())
	return err
}

// JSONFormatter writes indented JSON
type JSONFormatter struct{}

func (JSONFormatter) Format() Format { return FormatJSON }

func (JSONFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// MarkdownFormatter writes a GitHub-flavored markdown table
type MarkdownFormatter struct{}

func (MarkdownFormatter) Format() Format { return FormatMarkdown }

func (MarkdownFormatter) Render(w io.Writer, report *Report) error {
	var sb strings.Builder
	if report.Title != "" {
		fmt.Fprintf(&sb, "## %s\n\n", report.Title)
	}
	sb.WriteString("| Commodity | Currency | Price per ounce | Quoted as of |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, q := range report.Quotes {
		asOf := q.AsOf
		if asOf == "" {
			asOf = report.AsOf
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", q.Commodity, q.Currency, q.Output(), asOf)
	}
	fmt.Fprintf(&sb, "\n_%s_\n", staticNotice)

	_, err := io.WriteString(w, sb.String())
	return err
}
