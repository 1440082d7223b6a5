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

// CruiseHandler serves the cruise endpoints.
type CruiseHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Cruises      *repository.CruiseRepo
}

func NewCruiseHandler(cfg config.Config, res *repository.ReservationRepo, cruises *repository.CruiseRepo) *CruiseHandler {
	return &CruiseHandler{Cfg: cfg, Reservations: res, Cruises: cruises}
}

type cruiseReq struct {
	Ship             *string `json:"ship"`
	DeparturePort    *string `json:"departure_port"`
	ArrivalPort      *string `json:"arrival_port"`
	DepartsAt        *string `json:"departs_at"`
	ReturnsAt        *string `json:"returns_at"`
	Provider         *string `json:"provider"`
	BookingReference *string `json:"booking_reference"`
	TotalPrice       *string `json:"total_price"`
	AmountPaid       *string `json:"amount_paid"`
	Currency         *string `json:"currency"`
}

func (h *CruiseHandler) validate(req cruiseReq, current *model.Cruise) error {
	ports := policy.DistinctInput{A: req.DeparturePort, B: req.ArrivalPort}
	dates := policy.DateRangeInput{Start: req.DepartsAt, End: req.ReturnsAt}
	prices := policy.PricePairInput{Total: req.TotalPrice, Paid: req.AmountPaid}
	require := policy.RequireBoth
	if current != nil {
		ports.CurrentA, ports.CurrentB = &current.DeparturePort, &current.ArrivalPort
		dates.CurrentStart, dates.CurrentEnd = &current.DepartsAt, &current.ReturnsAt
		prices.CurrentTotal, prices.CurrentPaid = &current.TotalPriceCents, &current.AmountPaidCents
		require = policy.RequireNone
	}
	if err := policy.CheckDistinct(ports, policy.DistinctOpts{
		AField:     "departure_port",
		BField:     "arrival_port",
		Require:    require,
		Trim:       true,
		IgnoreCase: true,
	}); err != nil {
		return err
	}
	if err := policy.CheckDateRange(dates, policy.DateRangeOpts{
		StartField:          "departs_at",
		EndField:            "returns_at",
		Require:             require,
		MinHoursBeforeStart: policy.Hours(h.Cfg.MinAdvanceHours),
	}); err != nil {
		return err
	}
	return policy.CheckPricePair(prices, policy.PricePairOpts{
		TotalField: "total_price",
		PaidField:  "amount_paid",
		Require:    require,
	})
}

// Create handles POST /v1/reservations/:id/cruises.
func (h *CruiseHandler) Create(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req cruiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Ship == nil || strings.TrimSpace(*req.Ship) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ship required", "fields": []string{"ship"}})
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

	departsAt, _ := policy.ParseDate("departs_at", *req.DepartsAt)
	returnsAt, _ := policy.ParseDate("returns_at", *req.ReturnsAt)
	total, _ := policy.ParseAmount("total_price", *req.TotalPrice)
	paid, _ := policy.ParseAmount("amount_paid", *req.AmountPaid)

	cruise := &model.Cruise{
		ReservationID:    reservationID,
		Ship:             strings.TrimSpace(*req.Ship),
		DeparturePort:    strings.TrimSpace(*req.DeparturePort),
		ArrivalPort:      strings.TrimSpace(*req.ArrivalPort),
		DepartsAt:        departsAt,
		ReturnsAt:        returnsAt,
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

	if err := h.Cruises.CreateTx(ctx, tx, cruise); err != nil {
		return respondError(c, err)
	}
	adj := aggregate.OnCreate(aggregate.Amounts{
		TotalCents: cruise.TotalPriceCents,
		PaidCents:  cruise.AmountPaidCents,
		Currency:   cruise.Currency,
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
	return c.JSON(http.StatusCreated, cruise)
}

// List handles GET /v1/reservations/:id/cruises.
func (h *CruiseHandler) List(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	list, err := h.Cruises.ListByReservation(ctx, reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cruises": list})
}

// Get handles GET /v1/cruises/:id.
func (h *CruiseHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cruise, err := h.Cruises.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, cruise.ReservationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cruise)
}

// Update handles PATCH /v1/cruises/:id.
func (h *CruiseHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req cruiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Currency != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency is immutable", "fields": []string{"currency"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Cruises.GetByID(ctx, id)
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

	departsAt, err := parseOptionalDate("departs_at", req.DepartsAt)
	if err != nil {
		return respondError(c, err)
	}
	returnsAt, err := parseOptionalDate("returns_at", req.ReturnsAt)
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

	if err := h.Cruises.UpdateTx(ctx, tx, id, uid, repository.CruiseUpdate{
		Ship:             req.Ship,
		DeparturePort:    req.DeparturePort,
		ArrivalPort:      req.ArrivalPort,
		DepartsAt:        departsAt,
		ReturnsAt:        returnsAt,
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

	updated, err := h.Cruises.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/cruises/:id.
func (h *CruiseHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Cruises.GetByID(ctx, id)
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

	amounts, err := h.Cruises.DeleteTx(ctx, tx, id)
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
