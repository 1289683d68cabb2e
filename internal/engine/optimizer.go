package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/piwi3910/BarCut/internal/model"
)

// Optimizer turns a cut list into a cutting plan for one stock configuration.
// It is safe for concurrent use; the only state it keeps is the last
// successful plan.
type Optimizer struct {
	Config   model.StockConfig
	logger   zerolog.Logger
	workers  int
	validate *validator.Validate

	mu      sync.Mutex
	last    model.Plan
	hasLast bool
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for debug traces of the search.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// WithWorkers packs candidate lengths on up to n goroutines. Values below 2
// keep the search sequential. The result is the same either way.
func WithWorkers(n int) Option {
	return func(o *Optimizer) { o.workers = n }
}

func New(cfg model.StockConfig, opts ...Option) *Optimizer {
	o := &Optimizer{
		Config:   cfg,
		logger:   zerolog.Nop(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize is a convenience wrapper that runs a fresh Optimizer once.
func Optimize(demand []model.DemandRow, cfg model.StockConfig, inventory []model.InventoryRow) (model.Plan, error) {
	return New(cfg).Optimize(demand, inventory)
}

// Optimize validates the request, cuts what it can from inventory, searches
// purchased bar lengths for the rest and returns the aggregated plan with its
// diagnostics. On a validation error no plan is returned.
func (o *Optimizer) Optimize(demand []model.DemandRow, inventory []model.InventoryRow) (model.Plan, error) {
	if err := o.check(demand, inventory); err != nil {
		o.logger.Debug().Err(err).Msg("request rejected")
		return model.Plan{}, err
	}

	pieces := ExpandDemand(demand)
	sortDescending(pieces)

	alloc := AllocateInventory(pieces, inventory, o.Config.Kerf)
	o.logger.Debug().
		Int("pieces", len(pieces)).
		Int("inventory_bars", len(alloc.UsedBins)).
		Int("pending", len(alloc.RemainingPieces)).
		Msg("inventory allocated")

	ref := Refine(alloc.RemainingPieces, o.Config, o.workers, o.logger)

	plan := Aggregate(alloc.UsedBins, ref.Bins, len(pieces), resolvedLength(ref.Bins))
	plan.Warnings = Diagnose(plan, o.Config)

	o.logger.Debug().
		Str("efficiency", plan.Efficiency).
		Int("bars", plan.TotalBins).
		Stringer("resolved_length", plan.ResolvedLength).
		Int("warnings", len(plan.Warnings)).
		Msg("plan ready")

	o.mu.Lock()
	o.last, o.hasLast = plan, true
	o.mu.Unlock()
	return plan, nil
}

type optimizeOutcome struct {
	plan model.Plan
	err  error
}

// OptimizeContext runs Optimize on its own goroutine and gives up when ctx is
// done. An abandoned run finishes in the background but its plan is discarded.
func (o *Optimizer) OptimizeContext(ctx context.Context, demand []model.DemandRow, inventory []model.InventoryRow) (model.Plan, error) {
	if err := ctx.Err(); err != nil {
		return model.Plan{}, err
	}
	done := make(chan optimizeOutcome, 1)
	worker := &Optimizer{Config: o.Config, logger: o.logger, workers: o.workers, validate: o.validate}
	go func() {
		plan, err := worker.Optimize(demand, inventory)
		done <- optimizeOutcome{plan: plan, err: err}
	}()

	select {
	case <-ctx.Done():
		o.logger.Warn().Err(ctx.Err()).Msg("optimization aborted")
		return model.Plan{}, ctx.Err()
	case out := <-done:
		if out.err == nil {
			o.mu.Lock()
			o.last, o.hasLast = out.plan, true
			o.mu.Unlock()
		}
		return out.plan, out.err
	}
}

// Last returns the most recent successful plan.
func (o *Optimizer) Last() (model.Plan, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last, o.hasLast
}

// check applies the preconditions in a fixed order so the reported error is
// stable: empty demand, malformed rows, inverted range, config bounds, and
// finally a piece longer than any purchasable bar.
func (o *Optimizer) check(demand []model.DemandRow, inventory []model.InventoryRow) error {
	if len(demand) == 0 {
		return newValidationError(ErrEmptyDemand, "demand is empty: add at least one piece")
	}
	for i, r := range demand {
		if err := o.validate.Struct(r); err != nil {
			return newValidationError(ErrInvalidDemand, "demand row %d: %s", i+1, describe(err))
		}
	}
	for i, r := range inventory {
		if err := o.validate.Struct(r); err != nil {
			return newValidationError(ErrInvalidDemand, "inventory row %d: %s", i+1, describe(err))
		}
	}

	cfg := o.Config
	if cfg.MinLength > cfg.MaxLength {
		return newValidationError(ErrInvalidRange, "minimum stock length %smm must not exceed maximum %smm",
			model.FormatLength(cfg.MinLength), model.FormatLength(cfg.MaxLength))
	}
	if err := o.validate.Struct(cfg); err != nil {
		return newValidationError(ErrInvalidConfig, "stock config: %s", describe(err))
	}

	var longestPiece float64
	for _, r := range demand {
		if r.Length > longestPiece {
			longestPiece = r.Length
		}
	}
	if longestPiece > cfg.MaxLength {
		return newValidationError(ErrPieceTooLong, "piece %smm exceeds maximum stock length %smm",
			model.FormatLength(longestPiece), model.FormatLength(cfg.MaxLength))
	}
	return nil
}

// describe turns validator field errors into a short readable sentence.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
