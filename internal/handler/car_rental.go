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

// CarRentalHandler serves the car-rental endpoints.  Unlike transfers,
// pickup and dropoff locations may coincide (round trips), so distinctness
// is relaxed to presence and non-emptiness.
type CarRentalHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	CarRentals   *repository.CarRentalRepo
}

func NewCarRentalHandler(cfg config.Config, res *repository.ReservationRepo, cr *repository.CarRentalRepo) *CarRentalHandler {
	return &CarRentalHandler{Cfg: cfg, Reservations: res, CarRentals: cr}
}

type carRentalReq struct {
	Vehicle          *string `json:"vehicle"`
	PickupLocation   *string `json:"pickup_location"`
	DropoffLocation  *string `json:"dropoff_location"`
	PickupAt         *string `json:"pickup_at"`
	DropoffAt        *string `json:"dropoff_at"`
	Provider         *string `json:"provider"`
	BookingReference *string `json:"booking_reference"`
	TotalPrice       *string `json:"total_price"`
	AmountPaid       *string `json:"amount_paid"`
	Currency         *string `json:"currency"`
}

func (h *CarRentalHandler) validate(req carRentalReq, current *model.CarRental) error {
	locations := policy.DistinctInput{A: req.PickupLocation, B: req.DropoffLocation}
	dates := policy.DateRangeInput{Start: req.PickupAt, End: req.DropoffAt}
	prices := policy.PricePairInput{Total: req.TotalPrice, Paid: req.AmountPaid}
	require := policy.RequireBoth
	if current != nil {
		locations.CurrentA, locations.CurrentB = &current.PickupLocation, &current.DropoffLocation
		dates.CurrentStart, dates.CurrentEnd = &current.PickupAt, &current.DropoffAt
		prices.CurrentTotal, prices.CurrentPaid = &current.TotalPriceCents, &current.AmountPaidCents
		require = policy.RequireNone
	}
	if err := policy.CheckDistinct(locations, policy.DistinctOpts{
		AField:     "pickup_location",
		BField:     "dropoff_location",
		Require:    require,
		AllowEqual: true,
		Trim:       true,
	}); err != nil {
		return err
	}
	if err := policy.CheckDateRange(dates, policy.DateRangeOpts{
		StartField: "pickup_at",
		EndField:   "dropoff_at",
		Require:    require,
	}); err != nil {
		return err
	}
	return policy.CheckPricePair(prices, policy.PricePairOpts{
		TotalField: "total_price",
		PaidField:  "amount_paid",
		Require:    require,
	})
}

// Create handles POST /v1/reservations/:id/car-rentals.
func (h *CarRentalHandler) Create(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req carRentalReq
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

	pickupAt, _ := policy.ParseDate("pickup_at", *req.PickupAt)
	dropoffAt, _ := policy.ParseDate("dropoff_at", *req.DropoffAt)
	total, _ := policy.ParseAmount("total_price", *req.TotalPrice)
	paid, _ := policy.ParseAmount("amount_paid", *req.AmountPaid)

	rental := &model.CarRental{
		ReservationID:    reservationID,
		Vehicle:          req.Vehicle,
		PickupLocation:   strings.TrimSpace(*req.PickupLocation),
		DropoffLocation:  strings.TrimSpace(*req.DropoffLocation),
		PickupAt:         pickupAt,
		DropoffAt:        dropoffAt,
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

	if err := h.CarRentals.CreateTx(ctx, tx, rental); err != nil {
		return respondError(c, err)
	}
	adj := aggregate.OnCreate(aggregate.Amounts{
		TotalCents: rental.TotalPriceCents,
		PaidCents:  rental.AmountPaidCents,
		Currency:   rental.Currency,
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
	return c.JSON(http.StatusCreated, rental)
}

// List handles GET /v1/reservations/:id/car-rentals.
func (h *CarRentalHandler) List(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	list, err := h.CarRentals.ListByReservation(ctx, reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"car_rentals": list})
}

// Get handles GET /v1/car-rentals/:id.
func (h *CarRentalHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rental, err := h.CarRentals.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, rental.ReservationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rental)
}

// Update handles PATCH /v1/car-rentals/:id.
func (h *CarRentalHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req carRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Currency != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency is immutable", "fields": []string{"currency"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.CarRentals.GetByID(ctx, id)
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

	pickupAt, err := parseOptionalDate("pickup_at", req.PickupAt)
	if err != nil {
		return respondError(c, err)
	}
	dropoffAt, err := parseOptionalDate("dropoff_at", req.DropoffAt)
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

	if err := h.CarRentals.UpdateTx(ctx, tx, id, uid, repository.CarRentalUpdate{
		Vehicle:          req.Vehicle,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		PickupAt:         pickupAt,
		DropoffAt:        dropoffAt,
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

	updated, err := h.CarRentals.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/car-rentals/:id.
func (h *CarRentalHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.CarRentals.GetByID(ctx, id)
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

	amounts, err := h.CarRentals.DeleteTx(ctx, tx, id)
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
