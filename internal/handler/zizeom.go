package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/model"
	"github.com/zizeomlab/film-warranty/internal/repository"
)

// ZizeomHandler serves the branch endpoints: creation, listing, the
// joined detail view and the consumed-counter reconciliation.
type ZizeomHandler struct {
	Zizeoms  *repository.ZizeomRepo
	Accounts *repository.AccountRepo
	Details  *repository.ServiceDetailRepo
}

func NewZizeomHandler(z *repository.ZizeomRepo, a *repository.AccountRepo, d *repository.ServiceDetailRepo) *ZizeomHandler {
	if z == nil || a == nil || d == nil {
		panic("nil repository passed to NewZizeomHandler")
	}
	return &ZizeomHandler{Zizeoms: z, Accounts: a, Details: d}
}

// createZizeomReq mirrors the original creation body.  The film
// amounts are pointers so that an explicit 0 passes the required check
// while an absent field does not.
type createZizeomReq struct {
	Name               string `json:"name" validate:"required"`
	Address            string `json:"address" validate:"required"`
	Phone              string `json:"phone" validate:"required"`
	OwnFilmAmount      *int64 `json:"ownFilmAmount" validate:"required,gte=0"`
	ConsumedFilmAmount *int64 `json:"consumedFilmAmount" validate:"required,gte=0"`
	AccountID          uint64 `json:"accountId" validate:"required"`
}

// Create handles POST /v1/zizeoms.  The referenced representative
// account must exist before the branch row is written.
func (h *ZizeomHandler) Create(c echo.Context) error {
	var req createZizeomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": firstValidationError(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Accounts.Exists(ctx, req.AccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	id, err := h.Zizeoms.Create(ctx, &model.Zizeom{
		Name:               req.Name,
		Address:            req.Address,
		Phone:              req.Phone,
		OwnFilmAmount:      *req.OwnFilmAmount,
		ConsumedFilmAmount: *req.ConsumedFilmAmount,
		AccountID:          req.AccountID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create zizeom failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"zizeomId": id})
}

// List handles GET /v1/zizeoms with optional `search` and `account_id`
// filters.
func (h *ZizeomHandler) List(c echo.Context) error {
	accountID, ok := queryID(c, "account_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account_id"})
	}
	q := repository.ZizeomSearchQuery{
		Search:    c.QueryParam("search"),
		AccountID: accountID,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	zizeoms, err := h.Zizeoms.List(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, zizeoms)
}

// Get handles GET /v1/zizeoms/:id, returning the branch with its
// representative account and recorded line items joined in.
func (h *ZizeomHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zizeom id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Zizeoms.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zizeom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rows, err := h.Details.ListByZizeom(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	d.ServiceDetails = rows
	return c.JSON(http.StatusOK, d)
}

// Reconcile handles POST /v1/zizeoms/:id/reconcile.  It recomputes the
// branch's consumed counter from its service detail rows, corrects any
// drift left behind by failed order creations of earlier deployments,
// and reports both values.
func (h *ZizeomHandler) Reconcile(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zizeom id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	previous, recomputed, err := h.Zizeoms.Reconcile(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zizeom not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconcile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"zizeomId":           id,
		"previousConsumed":   previous,
		"recomputedConsumed": recomputed,
		"drift":              previous - recomputed,
	})
}
