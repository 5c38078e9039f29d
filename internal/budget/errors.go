package budget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/period"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrPeriodNotFound   = errors.New("budget period not found")
	ErrInvalidAmount    = errors.New("amount must be a non-negative number")
	ErrNoSources        = errors.New("reallocation needs at least one source")
	ErrBudgetExceeded   = errors.New("budget exceeded")
	ErrReallocateFailed = errors.New("reallocation failed")
)

// ExceededError is a soft rejection: the caller may retry with the override flag.
type ExceededError struct {
	CategoryID int64
	Period     string
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("budget exceeded for category %d in %s: limit %s, spent %s, remaining %s",
		e.CategoryID, e.Period, e.Limit, e.Spent, e.Remaining)
}

func (e *ExceededError) Is(target error) bool { return target == ErrBudgetExceeded }

type FailureReason string

const (
	ReasonInvalidInput FailureReason = "INVALID_INPUT"
	ReasonNoBudget     FailureReason = "NO_BUDGET"
	ReasonInsufficient FailureReason = "INSUFFICIENT"
)

// SourceFailure explains why one reallocation source was refused. The amounts
// are only meaningful for ReasonInsufficient.
type SourceFailure struct {
	CategoryID         int64
	Reason             FailureReason
	Current            decimal.Decimal
	Spent              decimal.Decimal
	RequestedReduction decimal.Decimal
	// MinAllowed is the lowest limit the category may be left with.
	MinAllowed decimal.Decimal
	// MaxReduction is the most that could have been removed.
	MaxReduction decimal.Decimal
}

// ReallocateError carries every refused source; nothing was changed.
type ReallocateError struct {
	Failures []SourceFailure
}

func (e *ReallocateError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("category %d: %s", f.CategoryID, f.Reason))
	}

	return "reallocation failed: " + strings.Join(parts, "; ")
}

func (e *ReallocateError) Is(target error) bool { return target == ErrReallocateFailed }

// isDomainError reports errors that describe the request rather than the store.
func isDomainError(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNoSources) ||
		errors.Is(err, ErrBudgetExceeded) ||
		errors.Is(err, ErrReallocateFailed) ||
		errors.Is(err, period.ErrInvalidPeriod)
}
