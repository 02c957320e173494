// Package step implements the price lookup step.
// One invocation reads two inputs, validates them against the supported
// sets and resolves a constant price from the static table.
package step

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"commodity-price/core/pricing"
	"commodity-price/core/types"
	"commodity-price/internal/errors"
)

// Inputs are the raw, unnormalized step inputs
type Inputs struct {
	Commodity string `json:"commodity"`
	Currency  string `json:"currency"`
}

// Result is the outcome of a successful run
type Result struct {
	Quote        pricing.Quote `json:"quote"`
	InvocationID string        `json:"invocation_id"`
}

// Step resolves prices from a fixed table
type Step struct {
	table        *pricing.Table
	logger       *zap.Logger
	invocationID string
}

// Option configures a Step
type Option func(*Step)

// WithInvocationID tags every log line with id instead of a random one
func WithInvocationID(id string) Option {
	return func(s *Step) {
		if id != "" {
			s.invocationID = id
		}
	}
}

// New creates a step over table. A nil logger discards logs.
func New(table *pricing.Table, logger *zap.Logger, opts ...Option) *Step {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Step{
		table:        table,
		logger:       logger,
		invocationID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InvocationID identifies this step instance in logs
func (s *Step) InvocationID() string {
	return s.invocationID
}

// Validate normalizes in and reports every unsupported value at once
func Validate(in Inputs) (types.Commodity, types.Currency, error) {
	var problems *multierror.Error

	commodity, err := types.ParseCommodity(in.Commodity)
	if err != nil {
		problems = errors.Collect(problems, err)
	}

	currency, err := types.ParseCurrency(in.Currency)
	if err != nil {
		problems = errors.Collect(problems, err)
	}

	if err := problems.ErrorOrNil(); err != nil {
		return "", "", errors.InvalidInput(err).
			WithContext("commodity", in.Commodity).
			WithContext("currency", in.Currency)
	}
	return commodity, currency, nil
}

// Run validates in and resolves its price
func (s *Step) Run(ctx context.Context, in Inputs) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Internal("step cancelled before start", err)
	}

	log := s.logger.With(zap.String("invocation_id", s.invocationID))
	log.Info(fmt.Sprintf("Getting current %s price per ounce...", in.Commodity),
		zap.String("commodity", in.Commodity),
		zap.String("currency", in.Currency),
	)

	commodity, currency, err := Validate(in)
	if err != nil {
		log.Error("rejected step inputs", zap.String("reason", errors.Reason(err)))
		return nil, err
	}

	quote, err := s.table.Lookup(commodity, currency)
	if err != nil {
		return nil, err
	}

	log.Info("Current price per ounce",
		zap.String("commodity", string(quote.Commodity)),
		zap.String("currency", string(quote.Currency)),
		zap.String("price", quote.Output()),
		zap.String("unit", quote.Unit),
		zap.String("quoted_as_of", quote.AsOf),
	)

	return &Result{Quote: quote, InvocationID: s.invocationID}, nil
}
