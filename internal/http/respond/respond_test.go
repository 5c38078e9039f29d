package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
	"github.com/MrJamesThe3rd/kitty/internal/period"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"InvalidPeriod", fmt.Errorf("%w: %q", period.ErrInvalidPeriod, "2025-13"), http.StatusBadRequest, respond.CodeInvalidPeriod},
		{"InvalidAmount", budget.ErrInvalidAmount, http.StatusBadRequest, respond.CodeInvalidInput},
		{"CategoryNotFound", budget.ErrCategoryNotFound, http.StatusNotFound, respond.CodeCategoryNotFound},
		{"PeriodNotFound", budget.ErrPeriodNotFound, http.StatusNotFound, respond.CodePeriodNotFound},
		{"SoleOwner", membership.ErrSoleOwner, http.StatusConflict, respond.CodeSoleOwner},
		{"NotOwner", membership.ErrNotOwner, http.StatusForbidden, respond.CodeNotOwner},
		{"TargetNotFound", membership.ErrTargetNotFound, http.StatusNotFound, respond.CodeTargetNotFound},
		{"OwnerRemoval", membership.ErrOwnerRemoval, http.StatusConflict, respond.CodeOwnerRemoval},
		{"Duplicate", category.ErrDuplicate, http.StatusConflict, respond.CodeDuplicate},
		{"InUse", &category.InUseError{Count: 3}, http.StatusConflict, respond.CodeInUse},
		{"Forbidden", respond.ErrForbidden, http.StatusForbidden, respond.CodeForbidden},
		{"Aborted", database.Aborted("reallocate", errors.New("connection reset")), http.StatusServiceUnavailable, respond.CodeTxAborted},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError, respond.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respond.Describe(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestDescribe_AbortedHidesCause(t *testing.T) {
	_, body := respond.Describe(database.Aborted("set_limit", errors.New("password=hunter2")))
	assert.Equal(t, "operation failed, retry", body.Message)
}

func TestError_BudgetExceededCarriesAmounts(t *testing.T) {
	err := &budget.ExceededError{
		CategoryID: 4,
		Period:     "2025-03",
		Limit:      decimal.RequireFromString("200"),
		Spent:      decimal.RequireFromString("200"),
		Remaining:  decimal.Zero,
	}

	rec := httptest.NewRecorder()
	respond.Error(rec, httptest.NewRequest(http.MethodPost, "/", nil), fmt.Errorf("create transaction: %w", err))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "BUDGET_EXCEEDED", body["code"])
	assert.Equal(t, "200", body["limit"])
	assert.Equal(t, "200", body["spent"])
	assert.Equal(t, "0", body["remaining"])
}

func TestError_ReallocateFailedListsFailures(t *testing.T) {
	err := &budget.ReallocateError{Failures: []budget.SourceFailure{
		{
			CategoryID:         2,
			Reason:             budget.ReasonInsufficient,
			Current:            decimal.RequireFromString("300"),
			Spent:              decimal.RequireFromString("150"),
			RequestedReduction: decimal.RequireFromString("200"),
			MinAllowed:         decimal.RequireFromString("150"),
			MaxReduction:       decimal.RequireFromString("150"),
		},
		{CategoryID: 9, Reason: budget.ReasonNoBudget},
	}}

	rec := httptest.NewRecorder()
	respond.Error(rec, httptest.NewRequest(http.MethodPut, "/", nil), err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body respond.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "REALLOCATE_FAILED", body.Code)
	require.Len(t, body.Failures, 2)
	assert.Equal(t, "INSUFFICIENT", body.Failures[0].Reason)
	assert.Equal(t, "150", body.Failures[0].MaxReduction.String())
	assert.Equal(t, "NO_BUDGET", body.Failures[1].Reason)
	assert.Nil(t, body.Failures[1].Current)
}

type createLedgerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"Valid", `{"name":"Household"}`, false},
		{"MissingField", `{}`, true},
		{"TooLong", `{"name":"` + strings.Repeat("x", 101) + `"}`, true},
		{"Malformed", `{"name":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req createLedgerRequest
			err := respond.Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), &req)

			if tt.wantErr {
				assert.ErrorIs(t, err, respond.ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Household", req.Name)
		})
	}
}
