package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/http/auth"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

type Handler struct {
	svc   *budget.Service
	roles auth.RoleSource
}

func NewHandler(svc *budget.Service, roles auth.RoleSource) *Handler {
	return &Handler{svc: svc, roles: roles}
}

// Routes mounts under /ledgers/{ledgerID}/budgets. Every route takes an
// optional ?period= token.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.progress)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.roles, membership.RoleEditor))
		r.Patch("/period", h.updatePeriod)
		r.Put("/{categoryID}", h.setLimit)
		r.Delete("/{categoryID}", h.deleteLimit)
	})
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	report, err := h.svc.Progress(r.Context(), ledgerID, r.URL.Query().Get("period"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportResponse(report))
}

type sourceRequest struct {
	CategoryID int64           `json:"category_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type setLimitRequest struct {
	Amount  *decimal.Decimal `json:"amount" validate:"required"`
	Sources []sourceRequest  `json:"sources" validate:"dive"`
}

// setLimit replaces the category limit, or moves budget into it when
// sources are given.
func (h *Handler) setLimit(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	categoryID, err := respond.IDParam(r, "categoryID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req setLimitRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	token := r.URL.Query().Get("period")

	if len(req.Sources) == 0 {
		rec, err := h.svc.SetLimit(r.Context(), ledgerID, token, categoryID, *req.Amount)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, limitResponse{
			Period:     toPeriodResponse(rec),
			CategoryID: categoryID,
			Limit:      *req.Amount,
		})

		return
	}

	sources := make([]budget.Source, len(req.Sources))
	for i, s := range req.Sources {
		sources[i] = budget.Source{CategoryID: s.CategoryID, Amount: s.Amount}
	}

	res, err := h.svc.Reallocate(r.Context(), budget.ReallocateParams{
		LedgerID:         ledgerID,
		Period:           token,
		TargetCategoryID: categoryID,
		TargetAmount:     *req.Amount,
		Sources:          sources,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReallocateResponse(res))
}

type updatePeriodRequest struct {
	Title      *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	ClearTotal bool             `json:"clear_total"`
}

func (h *Handler) updatePeriod(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updatePeriodRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rec, err := h.svc.SetPeriodMeta(r.Context(), ledgerID, r.URL.Query().Get("period"), budget.PeriodMeta{
		Title:      req.Title,
		Total:      req.Total,
		ClearTotal: req.ClearTotal,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPeriodResponse(rec))
}

func (h *Handler) deleteLimit(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	categoryID, err := respond.IDParam(r, "categoryID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	removed, err := h.svc.DeleteLimit(r.Context(), ledgerID, r.URL.Query().Get("period"), categoryID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"removed": removed})
}
