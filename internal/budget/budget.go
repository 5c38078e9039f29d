package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/period"
)

// PeriodRecord is the stored budget period of a ledger month.
type PeriodRecord struct {
	ID       int64
	LedgerID int64
	Key      string
	Title    string
	// Total overrides the sum of category limits when set.
	Total *decimal.Decimal
}

// PeriodMeta describes a change to a period's title and overall total.
type PeriodMeta struct {
	Title      *string
	Total      *decimal.Decimal
	ClearTotal bool
}

// LimitUsage is one category limit joined with the spend recorded against it.
type LimitUsage struct {
	CategoryID   int64
	CategoryName string
	CategoryType category.Type
	Limit        decimal.Decimal
	Spent        decimal.Decimal
}

type Status string

const (
	StatusNoBudget Status = "no_budget"
	StatusOnTrack  Status = "on_track"
	StatusAtRisk   Status = "at_risk"
	StatusOver     Status = "over"
)

var atRiskThreshold = decimal.RequireFromString("0.8")

// Progress is the reporting view of a single category limit.
type Progress struct {
	CategoryID   int64
	CategoryName string
	CategoryType category.Type
	Limit        decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal // floored at zero
	Ratio        *float64        // nil without a positive limit
	Status       Status
}

func newProgress(u LimitUsage) Progress {
	p := Progress{
		CategoryID:   u.CategoryID,
		CategoryName: u.CategoryName,
		CategoryType: u.CategoryType,
		Limit:        u.Limit,
		Spent:        u.Spent,
		Remaining:    floorZero(u.Limit.Sub(u.Spent)),
		Status:       StatusNoBudget,
	}

	if !u.Limit.IsPositive() {
		return p
	}

	ratio := u.Spent.Div(u.Limit)
	rounded := ratio.Round(4).InexactFloat64()
	p.Ratio = &rounded

	switch {
	case ratio.LessThan(atRiskThreshold):
		p.Status = StatusOnTrack
	case ratio.LessThanOrEqual(decimal.NewFromInt(1)):
		p.Status = StatusAtRisk
	default:
		p.Status = StatusOver
	}

	return p
}

// Report is the progress of every budgeted category in one ledger month.
type Report struct {
	Period        period.Period
	PeriodID      int64 // zero when the month has no budget period yet
	Title         string
	Total         decimal.Decimal
	TotalOverride bool
	Budgeted      decimal.Decimal // sum of category limits
	Spent         decimal.Decimal
	Items         []Progress
}

// SpendQuery selects the expense total of one category in one period.
type SpendQuery struct {
	LedgerID             int64
	CategoryID           int64
	Period               period.Period
	ExcludeTransactionID *int64
}

// SpendCheck is what the transaction write path submits before persisting.
type SpendCheck struct {
	LedgerID   int64
	CategoryID int64
	Amount     decimal.Decimal
	Type       category.Type
	Date       time.Time
	// ExcludeTransactionID is the row being edited, so it is not counted against itself.
	ExcludeTransactionID *int64
	// Override skips the check for a user-confirmed overspend.
	Override bool
}

// Source is a category giving up part of its limit in a reallocation.
type Source struct {
	CategoryID int64
	Amount     decimal.Decimal
}

type ReallocateParams struct {
	LedgerID         int64
	Period           string
	TargetCategoryID int64
	TargetAmount     decimal.Decimal
	Sources          []Source
}

// LimitChange records a limit before and after a reallocation.
type LimitChange struct {
	CategoryID int64
	Previous   decimal.Decimal
	Current    decimal.Decimal
}

type ReallocateResult struct {
	PeriodID  int64
	PeriodKey string
	Target    LimitChange
	Sources   []LimitChange
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}
