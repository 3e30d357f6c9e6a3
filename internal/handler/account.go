package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/config"
	"github.com/zizeomlab/film-warranty/internal/repository"
)

// AccountHandler serves the administrative account endpoints: creation
// without token issuance, the filtered listing and the detail view.
type AccountHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
}

func NewAccountHandler(cfg config.Config, a *repository.AccountRepo) *AccountHandler {
	if a == nil {
		panic("nil repository passed to NewAccountHandler")
	}
	return &AccountHandler{Cfg: cfg, Accounts: a}
}

// Create handles POST /v1/accounts.  It applies the same validation
// and conflict rules as registration but returns only the new id.
func (h *AccountHandler) Create(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": firstValidationError(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, repository.CreateAccountParams{
		AccountName:  strings.TrimSpace(req.AccountName),
		Role:         strings.ToLower(strings.TrimSpace(req.AccountType)),
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Address:      req.Address,
		CarName:      req.CarName,
		CarNumber:    req.CarNumber,
		CarDaeNumber: req.CarDaeNumber,
	}, h.Cfg.BcryptCost)
	if err != nil {
		status, msg := conflictMessage(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusCreated, echo.Map{"accountId": id})
}

// List handles GET /v1/accounts.  The optional `search` parameter is a
// case-insensitive substring matched against login name, display name,
// email and plate number; `role` is an exact filter.  Unlike the
// original, the password column never reaches the response.
func (h *AccountHandler) List(c echo.Context) error {
	q := repository.AccountSearchQuery{
		Search: c.QueryParam("search"),
		Role:   strings.ToLower(strings.TrimSpace(c.QueryParam("role"))),
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.List(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]accountPart, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountPart(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/accounts/:id.
func (h *AccountHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toAccountPart(a))
}
