package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/model"
	"github.com/zizeomlab/film-warranty/internal/queue"
	"github.com/zizeomlab/film-warranty/internal/repository"
	queue_publisher "github.com/zizeomlab/film-warranty/internal/service"
)

// OrderHandler implements the warranty order endpoints.  Creation is
// the one multi-entity write in the system: line items, the order row,
// the back-links and the branch counter increment all commit in a
// single transaction, so a mid-sequence failure leaves no partial
// state behind.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Details  *repository.ServiceDetailRepo
	Zizeoms  *repository.ZizeomRepo
	Accounts *repository.AccountRepo
}

func NewOrderHandler(o *repository.OrderRepo, d *repository.ServiceDetailRepo, z *repository.ZizeomRepo, a *repository.AccountRepo) *OrderHandler {
	if o == nil || d == nil || z == nil || a == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: o, Details: d, Zizeoms: z, Accounts: a}
}

// serviceDetailReq is one line item of a creation request.
type serviceDetailReq struct {
	Name               string `json:"name" validate:"required"`
	ConsumedFilmAmount *int64 `json:"consumedFilmAmount" validate:"required,gte=0"`
	DueDate            string `json:"dueDate" validate:"required"`
}

// createOrderReq mirrors the original creation body; the field order
// matches its required-field list so validation names the same first
// missing field.  serviceDetails may be empty.
type createOrderReq struct {
	ServiceTarget  string             `json:"serviceTarget" validate:"required"`
	ServiceDate    string             `json:"serviceDate" validate:"required"`
	ServicePrice   string             `json:"servicePrice" validate:"required"`
	ZizeomID       uint64             `json:"zizeomId" validate:"required"`
	AccountID      uint64             `json:"accountId" validate:"required"`
	CarNumber      string             `json:"carNumber" validate:"required"`
	ServiceDetails []serviceDetailReq `json:"serviceDetails" validate:"dive"`
}

// normalizeServicePrice strips thousands separators and surrounding
// whitespace from a submitted price and parses the remainder as a
// non-negative integer.  "1,200,000" and "1200000" are equivalent.
func normalizeServicePrice(raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, errors.New("empty price")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("price is not numeric")
	}
	if n < 0 {
		return 0, errors.New("price is negative")
	}
	return n, nil
}

// Create handles POST /v1/orders.
//
// The write sequence of the original ran as independent database calls
// with no recovery; here every step shares one transaction:
//
//  1. insert one service_details row per line item, stamped with the
//     order's branch and a NULL order_id;
//  2. insert the order row;
//  3. back-link the detail rows to the new order;
//  4. increment the branch's consumed film counter by the summed line
//     item quantities.
//
// The request is deliberately not idempotent: submitting the same body
// twice creates two orders, two sets of detail rows and two counter
// increments.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": firstValidationError(err)})
	}
	price, err := normalizeServicePrice(req.ServicePrice)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "servicePrice is invalid"})
	}

	var totalQuantity int64
	items := make([]model.ServiceDetail, 0, len(req.ServiceDetails))
	for _, d := range req.ServiceDetails {
		totalQuantity += *d.ConsumedFilmAmount
		items = append(items, model.ServiceDetail{
			Name:               d.Name,
			ConsumedFilmAmount: *d.ConsumedFilmAmount,
			DueDate:            d.DueDate,
			ZizeomID:           req.ZizeomID,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ok, err := h.Accounts.Exists(ctx, req.AccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	exists, err := h.Zizeoms.ExistsTx(ctx, tx, req.ZizeomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zizeom id"})
	}

	detailIDs, err := h.Details.CreateBulkTx(ctx, tx, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create service details"})
	}

	rec := model.Order{
		ServiceTarget: req.ServiceTarget,
		ServiceDate:   req.ServiceDate,
		ServicePrice:  price,
		ZizeomID:      req.ZizeomID,
		AccountID:     req.AccountID,
		CarNumber:     req.CarNumber,
	}
	if err := h.Orders.CreateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	if err := h.Details.SetOrderTx(ctx, tx, rec.ID, detailIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link service details"})
	}

	if totalQuantity > 0 {
		if err := h.Zizeoms.IncrementConsumedTx(ctx, tx, req.ZizeomID, totalQuantity); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update film counter"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Audit event after commit; a broker outage never fails the request.
	ev := queue.OrderCreatedEvent{
		OrderID:         rec.ID,
		ZizeomID:        rec.ZizeomID,
		AccountID:       rec.AccountID,
		ServiceTarget:   rec.ServiceTarget,
		ServiceDate:     rec.ServiceDate,
		ServicePrice:    rec.ServicePrice,
		CarNumber:       rec.CarNumber,
		DetailCount:     len(detailIDs),
		TotalFilmAmount: totalQuantity,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishOrderCreated(ctx, ev); err != nil {
		log.Printf("order %d: publish order.created failed: %v", rec.ID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"orderId": rec.ID})
}

// List handles GET /v1/orders with the filters of the original listing
// page: `search` substring, `zizeom_id`, `account_id` and literal
// `car_number`, all ANDed.
func (h *OrderHandler) List(c echo.Context) error {
	zizeomID, ok := queryID(c, "zizeom_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zizeom_id"})
	}
	accountID, ok := queryID(c, "account_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account_id"})
	}
	q := repository.OrderSearchQuery{
		Search:    c.QueryParam("search"),
		ZizeomID:  zizeomID,
		AccountID: accountID,
		CarNumber: strings.TrimSpace(c.QueryParam("car_number")),
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.List(ctx, h.Details, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /v1/orders/:id, returning the order joined with its
// branch, customer account and line items.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Orders.GetDetail(ctx, h.Details, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Lookup handles GET /v1/orders/lookup?car_number=...  It resolves a
// single order by literal plate number, the way the original single
// view accepted a query parameter.  A request without the parameter is
// a 400, not an empty result.
func (h *OrderHandler) Lookup(c echo.Context) error {
	carNumber := strings.TrimSpace(c.QueryParam("car_number"))
	if carNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "car_number is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Orders.GetByCarNumber(ctx, h.Details, carNumber)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}
