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

// FlightHandler serves the flight endpoints.  Origin and destination must
// differ, and departures respect the configured advance notice.
type FlightHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Flights      *repository.FlightRepo
}

func NewFlightHandler(cfg config.Config, res *repository.ReservationRepo, flights *repository.FlightRepo) *FlightHandler {
	return &FlightHandler{Cfg: cfg, Reservations: res, Flights: flights}
}

type flightReq struct {
	FlightNumber     *string `json:"flight_number"`
	Origin           *string `json:"origin"`
	Destination      *string `json:"destination"`
	DepartsAt        *string `json:"departs_at"`
	ArrivesAt        *string `json:"arrives_at"`
	Provider         *string `json:"provider"`
	BookingReference *string `json:"booking_reference"`
	TotalPrice       *string `json:"total_price"`
	AmountPaid       *string `json:"amount_paid"`
	Currency         *string `json:"currency"`
}

func (h *FlightHandler) validate(req flightReq, current *model.Flight) error {
	locations := policy.DistinctInput{A: req.Origin, B: req.Destination}
	dates := policy.DateRangeInput{Start: req.DepartsAt, End: req.ArrivesAt}
	prices := policy.PricePairInput{Total: req.TotalPrice, Paid: req.AmountPaid}
	require := policy.RequireBoth
	if current != nil {
		locations.CurrentA, locations.CurrentB = &current.Origin, &current.Destination
		dates.CurrentStart, dates.CurrentEnd = &current.DepartsAt, &current.ArrivesAt
		prices.CurrentTotal, prices.CurrentPaid = &current.TotalPriceCents, &current.AmountPaidCents
		require = policy.RequireNone
	}
	if err := policy.CheckDistinct(locations, policy.DistinctOpts{
		AField:     "origin",
		BField:     "destination",
		Require:    require,
		Trim:       true,
		IgnoreCase: true,
	}); err != nil {
		return err
	}
	if err := policy.CheckDateRange(dates, policy.DateRangeOpts{
		StartField:          "departs_at",
		EndField:            "arrives_at",
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

// Create handles POST /v1/reservations/:id/flights.
func (h *FlightHandler) Create(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
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
	arrivesAt, _ := policy.ParseDate("arrives_at", *req.ArrivesAt)
	total, _ := policy.ParseAmount("total_price", *req.TotalPrice)
	paid, _ := policy.ParseAmount("amount_paid", *req.AmountPaid)

	flight := &model.Flight{
		ReservationID:    reservationID,
		FlightNumber:     req.FlightNumber,
		Origin:           strings.TrimSpace(*req.Origin),
		Destination:      strings.TrimSpace(*req.Destination),
		DepartsAt:        departsAt,
		ArrivesAt:        arrivesAt,
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

	if err := h.Flights.CreateTx(ctx, tx, flight); err != nil {
		return respondError(c, err)
	}
	adj := aggregate.OnCreate(aggregate.Amounts{
		TotalCents: flight.TotalPriceCents,
		PaidCents:  flight.AmountPaidCents,
		Currency:   flight.Currency,
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
	return c.JSON(http.StatusCreated, flight)
}

// List handles GET /v1/reservations/:id/flights.
func (h *FlightHandler) List(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	list, err := h.Flights.ListByReservation(ctx, reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": list})
}

// Get handles GET /v1/flights/:id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	flight, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, flight.ReservationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flight)
}

// Update handles PATCH /v1/flights/:id.
func (h *FlightHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Currency != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency is immutable", "fields": []string{"currency"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Flights.GetByID(ctx, id)
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
	arrivesAt, err := parseOptionalDate("arrives_at", req.ArrivesAt)
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

	if err := h.Flights.UpdateTx(ctx, tx, id, uid, repository.FlightUpdate{
		FlightNumber:     req.FlightNumber,
		Origin:           req.Origin,
		Destination:      req.Destination,
		DepartsAt:        departsAt,
		ArrivesAt:        arrivesAt,
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

	updated, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/flights/:id.
func (h *FlightHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Flights.GetByID(ctx, id)
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

	amounts, err := h.Flights.DeleteTx(ctx, tx, id)
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
