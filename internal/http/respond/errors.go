package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
	"github.com/MrJamesThe3rd/kitty/internal/period"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

// Stable machine codes carried in every error body.
const (
	CodeInvalidPeriod    = "INVALID_PERIOD"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeCategoryNotFound = "CATEGORY_NOT_FOUND"
	CodePeriodNotFound   = "PERIOD_NOT_FOUND"
	CodeNotFound         = "NOT_FOUND"
	CodeBudgetExceeded   = "BUDGET_EXCEEDED"
	CodeReallocateFailed = "REALLOCATE_FAILED"
	CodeSoleOwner        = "SOLE_OWNER"
	CodeOwnerRemoval     = "OWNER_REMOVAL"
	CodeNotOwner         = "NOT_OWNER"
	CodeTargetNotFound   = "TARGET_NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeDuplicate        = "DUPLICATE"
	CodeInUse            = "IN_USE"
	CodeTxAborted        = "TX_ABORTED"
	CodeInternal         = "INTERNAL"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// BUDGET_EXCEEDED
	Limit     *decimal.Decimal `json:"limit,omitempty"`
	Spent     *decimal.Decimal `json:"spent,omitempty"`
	Remaining *decimal.Decimal `json:"remaining,omitempty"`

	// REALLOCATE_FAILED
	Failures []SourceFailure `json:"failures,omitempty"`

	// IN_USE
	Count int `json:"count,omitempty"`
}

type SourceFailure struct {
	CategoryID         int64            `json:"category_id"`
	Reason             string           `json:"reason"`
	Current            *decimal.Decimal `json:"current,omitempty"`
	Spent              *decimal.Decimal `json:"spent,omitempty"`
	RequestedReduction *decimal.Decimal `json:"requested_reduction,omitempty"`
	MinAllowed         *decimal.Decimal `json:"min_allowed,omitempty"`
	MaxReduction       *decimal.Decimal `json:"max_reduction,omitempty"`
}

type statusCode struct {
	status int
	code   string
}

// sentinels maps plain errors to their status and code. Checked in order.
var sentinels = []struct {
	err error
	statusCode
}{
	{period.ErrInvalidPeriod, statusCode{http.StatusBadRequest, CodeInvalidPeriod}},
	{ErrInvalidInput, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{budget.ErrInvalidAmount, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{budget.ErrNoSources, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{transaction.ErrInvalidAmount, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{transaction.ErrInvalidType, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{category.ErrInvalidName, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{category.ErrInvalidType, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{ledger.ErrInvalidName, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{membership.ErrInvalidRole, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{membership.ErrSelfTransfer, statusCode{http.StatusBadRequest, CodeInvalidInput}},
	{budget.ErrCategoryNotFound, statusCode{http.StatusNotFound, CodeCategoryNotFound}},
	{transaction.ErrCategoryNotFound, statusCode{http.StatusNotFound, CodeCategoryNotFound}},
	{budget.ErrPeriodNotFound, statusCode{http.StatusNotFound, CodePeriodNotFound}},
	{ledger.ErrNotFound, statusCode{http.StatusNotFound, CodeNotFound}},
	{membership.ErrLedgerNotFound, statusCode{http.StatusNotFound, CodeNotFound}},
	{membership.ErrMemberNotFound, statusCode{http.StatusNotFound, CodeNotFound}},
	{category.ErrNotFound, statusCode{http.StatusNotFound, CodeNotFound}},
	{transaction.ErrNotFound, statusCode{http.StatusNotFound, CodeNotFound}},
	{membership.ErrSoleOwner, statusCode{http.StatusConflict, CodeSoleOwner}},
	{membership.ErrOwnerRemoval, statusCode{http.StatusConflict, CodeOwnerRemoval}},
	{membership.ErrNotOwner, statusCode{http.StatusForbidden, CodeNotOwner}},
	{membership.ErrTargetNotFound, statusCode{http.StatusNotFound, CodeTargetNotFound}},
	{membership.ErrAlreadyMember, statusCode{http.StatusConflict, CodeDuplicate}},
	{category.ErrDuplicate, statusCode{http.StatusConflict, CodeDuplicate}},
	{ErrForbidden, statusCode{http.StatusForbidden, CodeForbidden}},
	{ErrUnauthorized, statusCode{http.StatusUnauthorized, CodeUnauthorized}},
	{database.ErrTxAborted, statusCode{http.StatusServiceUnavailable, CodeTxAborted}},
}

// Error writes err as a JSON error body. Unexpected errors are logged and
// reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := Describe(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	JSON(w, status, body)
}

// Describe maps err to its HTTP status and response body.
func Describe(err error) (int, ErrorBody) {
	var (
		exceeded   *budget.ExceededError
		reallocErr *budget.ReallocateError
		inUse      *category.InUseError
	)

	switch {
	case errors.As(err, &exceeded):
		return http.StatusConflict, ErrorBody{
			Code:      CodeBudgetExceeded,
			Message:   err.Error(),
			Limit:     &exceeded.Limit,
			Spent:     &exceeded.Spent,
			Remaining: &exceeded.Remaining,
		}
	case errors.As(err, &reallocErr):
		return http.StatusUnprocessableEntity, ErrorBody{
			Code:     CodeReallocateFailed,
			Message:  err.Error(),
			Failures: toSourceFailures(reallocErr.Failures),
		}
	case errors.As(err, &inUse):
		return http.StatusConflict, ErrorBody{Code: CodeInUse, Message: err.Error(), Count: inUse.Count}
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			msg := err.Error()
			if s.code == CodeTxAborted {
				msg = database.ErrTxAborted.Error()
			}

			return s.status, ErrorBody{Code: s.code, Message: msg}
		}
	}

	return http.StatusInternalServerError, ErrorBody{Code: CodeInternal, Message: "internal error"}
}

func toSourceFailures(failures []budget.SourceFailure) []SourceFailure {
	out := make([]SourceFailure, len(failures))

	for i, f := range failures {
		out[i] = SourceFailure{CategoryID: f.CategoryID, Reason: string(f.Reason)}

		if f.Reason == budget.ReasonInsufficient {
			out[i].Current = &f.Current
			out[i].Spent = &f.Spent
			out[i].RequestedReduction = &f.RequestedReduction
			out[i].MinAllowed = &f.MinAllowed
			out[i].MaxReduction = &f.MaxReduction
		}
	}

	return out
}
