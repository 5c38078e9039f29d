package budget

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/metrics"
	"github.com/MrJamesThe3rd/kitty/internal/period"
)

// Reallocate sets the target category's limit and takes the given amounts off
// the source limits in one unit of work. Either every change is applied or none is.
func (s *Service) Reallocate(ctx context.Context, params ReallocateParams) (*ReallocateResult, error) {
	p, err := s.periods.Resolve(params.Period)
	if err != nil {
		return nil, err
	}

	if len(params.Sources) == 0 {
		return nil, ErrNoSources
	}

	if params.TargetAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var res *ReallocateResult

	err = database.Retry(ctx, "reallocate", func() error {
		res, err = s.reallocate(ctx, params, p)
		return err
	})

	switch {
	case err == nil:
		metrics.Reallocations.WithLabelValues(metrics.ResultCommitted).Inc()
	case isDomainError(err):
		metrics.Reallocations.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, err
	default:
		metrics.Reallocations.WithLabelValues(metrics.ResultAborted).Inc()
		return nil, database.Aborted("reallocate", err)
	}

	slog.InfoContext(ctx, "budget reallocated",
		"ledger_id", params.LedgerID,
		"period", p.Key,
		"target_category_id", params.TargetCategoryID,
		"sources", len(res.Sources))

	return res, nil
}

func (s *Service) reallocate(ctx context.Context, params ReallocateParams, p period.Period) (*ReallocateResult, error) {
	tx, err := s.repo.Begin(ctx, params.LedgerID, p)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ok, err := tx.CategoryExists(ctx, params.TargetCategoryID)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrCategoryNotFound
	}

	rec, err := tx.EnsurePeriod(ctx, params.LedgerID, p, DefaultTitle(p))
	if err != nil {
		return nil, err
	}

	previous, _, err := tx.LockLimit(ctx, rec.ID, params.TargetCategoryID)
	if err != nil {
		return nil, err
	}

	if err := tx.UpsertLimit(ctx, rec.ID, params.TargetCategoryID, params.TargetAmount); err != nil {
		return nil, err
	}

	res := &ReallocateResult{
		PeriodID:  rec.ID,
		PeriodKey: p.Key,
		Target: LimitChange{
			CategoryID: params.TargetCategoryID,
			Previous:   previous,
			Current:    params.TargetAmount,
		},
	}

	var failures []SourceFailure

	seen := make(map[int64]bool, len(params.Sources))

	for _, src := range params.Sources {
		change, failure, err := s.checkSource(ctx, tx, params, rec.ID, p, src, seen)
		if err != nil {
			return nil, err
		}

		if failure != nil {
			failures = append(failures, *failure)
			continue
		}

		res.Sources = append(res.Sources, change)
	}

	if len(failures) > 0 {
		return nil, &ReallocateError{Failures: failures}
	}

	for _, c := range res.Sources {
		if err := tx.UpsertLimit(ctx, rec.ID, c.CategoryID, c.Current); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reallocation: %w", err)
	}

	return res, nil
}

// checkSource validates one source against its current limit and spend. A
// refused source is reported through the failure, not the error.
func (s *Service) checkSource(
	ctx context.Context,
	tx Tx,
	params ReallocateParams,
	periodID int64,
	p period.Period,
	src Source,
	seen map[int64]bool,
) (LimitChange, *SourceFailure, error) {
	invalid := &SourceFailure{CategoryID: src.CategoryID, Reason: ReasonInvalidInput}

	if !src.Amount.IsPositive() || src.CategoryID == params.TargetCategoryID || seen[src.CategoryID] {
		return LimitChange{}, invalid, nil
	}

	seen[src.CategoryID] = true

	current, ok, err := tx.LockLimit(ctx, periodID, src.CategoryID)
	if err != nil {
		return LimitChange{}, nil, err
	}

	if !ok {
		return LimitChange{}, &SourceFailure{CategoryID: src.CategoryID, Reason: ReasonNoBudget}, nil
	}

	spent, err := tx.SpentAmount(ctx, SpendQuery{
		LedgerID:   params.LedgerID,
		CategoryID: src.CategoryID,
		Period:     p,
	})
	if err != nil {
		return LimitChange{}, nil, err
	}

	newLimit := current.Sub(src.Amount)
	if newLimit.LessThan(spent) {
		return LimitChange{}, &SourceFailure{
			CategoryID:         src.CategoryID,
			Reason:             ReasonInsufficient,
			Current:            current,
			Spent:              spent,
			RequestedReduction: src.Amount,
			MinAllowed:         spent,
			MaxReduction:       floorZero(current.Sub(spent)),
		}, nil
	}

	return LimitChange{CategoryID: src.CategoryID, Previous: current, Current: newLimit}, nil, nil
}
