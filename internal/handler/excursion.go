package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/config"
	"github.com/jmarinero/travel-reservation-api/internal/model"
	"github.com/jmarinero/travel-reservation-api/internal/policy"
	"github.com/jmarinero/travel-reservation-api/internal/repository"
)

// ExcursionHandler serves the excursion endpoints.  Single-day excursions
// may start and end on the same instant.
type ExcursionHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Excursions   *repository.ExcursionRepo
}

func NewExcursionHandler(cfg config.Config, res *repository.ReservationRepo, exc *repository.ExcursionRepo) *ExcursionHandler {
	return &ExcursionHandler{Cfg: cfg, Reservations: res, Excursions: exc}
}

type excursionReq struct {
	Name             *string `json:"name"`
	Location         *string `json:"location"`
	StartsAt         *string `json:"starts_at"`
	EndsAt           *string `json:"ends_at"`
	Provider         *string `json:"provider"`
	BookingReference *string `json:"booking_reference"`
	TotalPrice       *string `json:"total_price"`
	AmountPaid       *string `json:"amount_paid"`
	Currency         *string `json:"currency"`
}

func (h *ExcursionHandler) validate(req excursionReq, current *model.Excursion) error {
	dates := policy.DateRangeInput{Start: req.StartsAt, End: req.EndsAt}
	prices := policy.PricePairInput{Total: req.TotalPrice, Paid: req.AmountPaid}
	require := policy.RequireBoth
	if current != nil {
		dates.CurrentStart, dates.CurrentEnd = &current.StartsAt, &current.EndsAt
		prices.CurrentTotal, prices.CurrentPaid = &current.TotalPriceCents, &current.AmountPaidCents
		require = policy.RequireNone
	}
	if err := policy.CheckDateRange(dates, policy.DateRangeOpts{
		StartField: "starts_at",
		EndField:   "ends_at",
		Require:    require,
		AllowEqual: true,
	}); err != nil {
		return err
	}
	return policy.CheckPricePair(prices, policy.PricePairOpts{
		TotalField: "total_price",
		PaidField:  "amount_paid",
		Require:    require,
	})
}

// Create handles POST /v1/reservations/:id/excursions.
func (h *ExcursionHandler) Create(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req excursionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required", "fields": []string{"name"}})
	}
	if req.Currency == nil || strings.TrimSpace(*req.Currency) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency required", "fields": []string{"currency"}})
	}
	if err := h.validate(req, nil); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	uid, _ := currentUserID(c)

	startsAt, _ := policy.ParseDate("starts_at", *req.StartsAt)
	endsAt, _ := policy.ParseDate("ends_at", *req.EndsAt)
	total, _ := policy.ParseAmount("total_price", *req.TotalPrice)
	paid, _ := policy.ParseAmount("amount_paid", *req.AmountPaid)

	excursion := &model.Excursion{
		ReservationID:    reservationID,
		Name:             strings.TrimSpace(*req.Name),
		Location:         req.Location,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		Provider:         req.Provider,
		BookingReference: req.BookingReference,
		TotalPriceCents:  total,
		AmountPaidCents:  paid,
		Currency:         strings.ToUpper(strings.TrimSpace(*req.Currency)),
		CreatedBy:        uid,
		UpdatedBy:        uid,
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Excursions.CreateTx(ctx, tx, excursion); err != nil {
		return respondError(c, err)
	}
	adj := aggregate.OnCreate(aggregate.Amounts{
		TotalCents: excursion.TotalPriceCents,
		PaidCents:  excursion.AmountPaidCents,
		Currency:   excursion.Currency,
	})
	if err := h.Reservations.TouchTx(ctx, tx, reservationID, uid, adj); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.UpsertCurrencyTotalTx(ctx, tx, reservationID, adj); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed = true
	return c.JSON(http.StatusCreated, excursion)
}

// List handles GET /v1/reservations/:id/excursions.
func (h *ExcursionHandler) List(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	list, err := h.Excursions.ListByReservation(ctx, reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"excursions": list})
}

// Get handles GET /v1/excursions/:id.
func (h *ExcursionHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	excursion, err := h.Excursions.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, excursion.ReservationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, excursion)
}

// Update handles PATCH /v1/excursions/:id.
func (h *ExcursionHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req excursionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Currency != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency is immutable", "fields": []string{"currency"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Excursions.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, current.ReservationID); err != nil {
		return respondError(c, err)
	}
	if err := h.validate(req, current); err != nil {
		return respondError(c, err)
	}
	uid, _ := currentUserID(c)

	startsAt, err := parseOptionalDate("starts_at", req.StartsAt)
	if err != nil {
		return respondError(c, err)
	}
	endsAt, err := parseOptionalDate("ends_at", req.EndsAt)
	if err != nil {
		return respondError(c, err)
	}
	total, err := parseOptionalAmount("total_price", req.TotalPrice)
	if err != nil {
		return respondError(c, err)
	}
	paid, err := parseOptionalAmount("amount_paid", req.AmountPaid)
	if err != nil {
		return respondError(c, err)
	}

	adj := aggregate.OnUpdate(aggregate.Amounts{
		TotalCents: current.TotalPriceCents,
		PaidCents:  current.AmountPaidCents,
		Currency:   current.Currency,
	}, total, paid)

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Excursions.UpdateTx(ctx, tx, id, uid, repository.ExcursionUpdate{
		Name:             req.Name,
		Location:         req.Location,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		Provider:         req.Provider,
		BookingReference: req.BookingReference,
		TotalPriceCents:  total,
		AmountPaidCents:  paid,
	}); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.TouchTx(ctx, tx, current.ReservationID, uid, adj); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.UpsertCurrencyTotalTx(ctx, tx, current.ReservationID, adj); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed = true

	updated, err := h.Excursions.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/excursions/:id.
func (h *ExcursionHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Excursions.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, current.ReservationID); err != nil {
		return respondError(c, err)
	}
	uid, _ := currentUserID(c)

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	amounts, err := h.Excursions.DeleteTx(ctx, tx, id)
	if err != nil {
		return respondError(c, err)
	}
	adj := aggregate.OnDelete(amounts)
	if err := h.Reservations.TouchTx(ctx, tx, current.ReservationID, uid, adj); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.UpsertCurrencyTotalTx(ctx, tx, current.ReservationID, adj); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
