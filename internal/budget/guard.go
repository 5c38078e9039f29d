package budget

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/metrics"
)

// CheckSpend decides whether an expense may be recorded against its category
// budget for the month of its date. It returns an *ExceededError when the
// amount would push spend past the limit. Income, overridden and unbudgeted
// transactions are always accepted.
func (s *Service) CheckSpend(ctx context.Context, c SpendCheck) error {
	if c.Type != category.TypeExpense {
		return nil
	}

	if c.Override {
		metrics.SpendGuardDecisions.WithLabelValues(metrics.ResultOverridden).Inc()
		return nil
	}

	p := s.periods.ForDate(c.Date)

	limit, ok, err := s.repo.FindLimit(ctx, c.LedgerID, c.CategoryID, p)
	if err != nil {
		return fmt.Errorf("check spend: %w", err)
	}

	if !ok {
		metrics.SpendGuardDecisions.WithLabelValues(metrics.ResultUnbudgeted).Inc()
		return nil
	}

	spent, err := s.repo.SpentAmount(ctx, SpendQuery{
		LedgerID:             c.LedgerID,
		CategoryID:           c.CategoryID,
		Period:               p,
		ExcludeTransactionID: c.ExcludeTransactionID,
	})
	if err != nil {
		return fmt.Errorf("check spend: %w", err)
	}

	if spent.Add(c.Amount).GreaterThan(limit) {
		metrics.SpendGuardDecisions.WithLabelValues(metrics.ResultRejected).Inc()

		return &ExceededError{
			CategoryID: c.CategoryID,
			Period:     p.Key,
			Limit:      limit,
			Spent:      spent,
			Remaining:  floorZero(limit.Sub(spent)),
		}
	}

	metrics.SpendGuardDecisions.WithLabelValues(metrics.ResultAccepted).Inc()

	return nil
}
