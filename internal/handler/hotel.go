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

// HotelHandler serves the hotel endpoints.  Every mutation adjusts the
// parent reservation's aggregate inside the same transaction.
type HotelHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Hotels       *repository.HotelRepo
}

func NewHotelHandler(cfg config.Config, res *repository.ReservationRepo, hotels *repository.HotelRepo) *HotelHandler {
	return &HotelHandler{Cfg: cfg, Reservations: res, Hotels: hotels}
}

type hotelReq struct {
	Name             *string `json:"name"`
	City             *string `json:"city"`
	CheckIn          *string `json:"check_in"`
	CheckOut         *string `json:"check_out"`
	Provider         *string `json:"provider"`
	BookingReference *string `json:"booking_reference"`
	TotalPrice       *string `json:"total_price"`
	AmountPaid       *string `json:"amount_paid"`
	Currency         *string `json:"currency"`
}

func (h *HotelHandler) validate(req hotelReq, current *model.Hotel) error {
	dates := policy.DateRangeInput{Start: req.CheckIn, End: req.CheckOut}
	prices := policy.PricePairInput{Total: req.TotalPrice, Paid: req.AmountPaid}
	require := policy.RequireBoth
	if current != nil {
		dates.CurrentStart, dates.CurrentEnd = &current.CheckIn, &current.CheckOut
		prices.CurrentTotal, prices.CurrentPaid = &current.TotalPriceCents, &current.AmountPaidCents
		require = policy.RequireNone
	}
	if err := policy.CheckDateRange(dates, policy.DateRangeOpts{
		StartField: "check_in",
		EndField:   "check_out",
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

// Create handles POST /v1/reservations/:id/hotels.
func (h *HotelHandler) Create(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hotelReq
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

	checkIn, _ := policy.ParseDate("check_in", *req.CheckIn)
	checkOut, _ := policy.ParseDate("check_out", *req.CheckOut)
	total, _ := policy.ParseAmount("total_price", *req.TotalPrice)
	paid, _ := policy.ParseAmount("amount_paid", *req.AmountPaid)

	hotel := &model.Hotel{
		ReservationID:    reservationID,
		Name:             strings.TrimSpace(*req.Name),
		City:             req.City,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
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

	if err := h.Hotels.CreateTx(ctx, tx, hotel); err != nil {
		return respondError(c, err)
	}
	adj := aggregate.OnCreate(aggregate.Amounts{
		TotalCents: hotel.TotalPriceCents,
		PaidCents:  hotel.AmountPaidCents,
		Currency:   hotel.Currency,
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
	return c.JSON(http.StatusCreated, hotel)
}

// List handles GET /v1/reservations/:id/hotels.
func (h *HotelHandler) List(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	list, err := h.Hotels.ListByReservation(ctx, reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": list})
}

// Get handles GET /v1/hotels/:id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, hotel.ReservationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

// Update handles PATCH /v1/hotels/:id.  Absent fields keep their persisted
// values; the aggregate is adjusted by the price delta only.
func (h *HotelHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Currency != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency is immutable", "fields": []string{"currency"}})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Hotels.GetByID(ctx, id)
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

	checkIn, err := parseOptionalDate("check_in", req.CheckIn)
	if err != nil {
		return respondError(c, err)
	}
	checkOut, err := parseOptionalDate("check_out", req.CheckOut)
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

	if err := h.Hotels.UpdateTx(ctx, tx, id, uid, repository.HotelUpdate{
		Name:             req.Name,
		City:             req.City,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
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

	updated, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/hotels/:id.  The record's last known amounts
// are negated into the aggregate within the same transaction.
func (h *HotelHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Hotels.GetByID(ctx, id)
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

	amounts, err := h.Hotels.DeleteTx(ctx, tx, id)
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
