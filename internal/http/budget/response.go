package budget

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/category"
)

type itemResponse struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CategoryType category.Type   `json:"category_type"`
	Limit        decimal.Decimal `json:"limit"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Ratio        *float64        `json:"ratio"`
	Status       budget.Status   `json:"status"`
}

type reportResponse struct {
	Period        string          `json:"period"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	PeriodID      *int64          `json:"period_id"`
	Title         string          `json:"title"`
	Total         decimal.Decimal `json:"total"`
	TotalOverride bool            `json:"total_override"`
	Budgeted      decimal.Decimal `json:"budgeted"`
	Spent         decimal.Decimal `json:"spent"`
	Items         []itemResponse  `json:"items"`
}

func toReportResponse(rep *budget.Report) reportResponse {
	resp := reportResponse{
		Period:        rep.Period.Key,
		StartDate:     rep.Period.StartDate(),
		EndDate:       rep.Period.EndDate(),
		Title:         rep.Title,
		Total:         rep.Total,
		TotalOverride: rep.TotalOverride,
		Budgeted:      rep.Budgeted,
		Spent:         rep.Spent,
		Items:         make([]itemResponse, len(rep.Items)),
	}

	if rep.PeriodID != 0 {
		resp.PeriodID = new(rep.PeriodID)
	}

	for i, it := range rep.Items {
		resp.Items[i] = itemResponse{
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
			CategoryType: it.CategoryType,
			Limit:        it.Limit,
			Spent:        it.Spent,
			Remaining:    it.Remaining,
			Ratio:        it.Ratio,
			Status:       it.Status,
		}
	}

	return resp
}

type periodResponse struct {
	ID    int64            `json:"id"`
	Key   string           `json:"period"`
	Title string           `json:"title"`
	Total *decimal.Decimal `json:"total"`
}

func toPeriodResponse(rec *budget.PeriodRecord) periodResponse {
	return periodResponse{ID: rec.ID, Key: rec.Key, Title: rec.Title, Total: rec.Total}
}

type limitResponse struct {
	Period     periodResponse  `json:"budget_period"`
	CategoryID int64           `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
}

type changeResponse struct {
	CategoryID int64           `json:"category_id"`
	Previous   decimal.Decimal `json:"previous"`
	Current    decimal.Decimal `json:"current"`
}

type reallocateResponse struct {
	PeriodID int64            `json:"period_id"`
	Period   string           `json:"period"`
	Target   changeResponse   `json:"target"`
	Sources  []changeResponse `json:"sources"`
}

func toChange(c budget.LimitChange) changeResponse {
	return changeResponse{CategoryID: c.CategoryID, Previous: c.Previous, Current: c.Current}
}

func toReallocateResponse(res *budget.ReallocateResult) reallocateResponse {
	resp := reallocateResponse{
		PeriodID: res.PeriodID,
		Period:   res.PeriodKey,
		Target:   toChange(res.Target),
		Sources:  make([]changeResponse, len(res.Sources)),
	}

	for i, s := range res.Sources {
		resp.Sources[i] = toChange(s)
	}

	return resp
}
