package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/jmarinero/travel-reservation-api/internal/config"
	"github.com/jmarinero/travel-reservation-api/internal/model"
	"github.com/jmarinero/travel-reservation-api/internal/queue"
	"github.com/jmarinero/travel-reservation-api/internal/repository"
	queue_publisher "github.com/jmarinero/travel-reservation-api/internal/service"
)

// ReservationHandler serves the reservation CRUD endpoints.  The running
// totals on each reservation are read-only here; only child service
// mutations adjust them.
type ReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(cfg config.Config, r *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Cfg: cfg, Reservations: r}
}

type createReservationReq struct {
	Notes *string `json:"notes"`
}

type updateReservationReq struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

var validStatuses = map[string]bool{
	model.ReservationDraft:     true,
	model.ReservationConfirmed: true,
	model.ReservationCancelled: true,
	model.ReservationCompleted: true,
}

// Create handles POST /v1/reservations.  New reservations start in DRAFT
// with zeroed totals.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res := &model.Reservation{
		UserID:    uid,
		Status:    model.ReservationDraft,
		Notes:     req.Notes,
		CreatedBy: uid,
		UpdatedBy: uid,
	}
	if err := h.Reservations.Create(ctx, res); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := authorizeReservation(ctx, c, h.Reservations, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /v1/reservations.  Agents see their own reservations;
// ADMIN may list another user's with ?user_id=.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if q := c.QueryParam("user_id"); q != "" && currentRole(c) == "ADMIN" {
		if override, err := strconv.ParseUint(q, 10, 64); err == nil {
			uid = override
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Update handles PATCH /v1/reservations/:id.  A transition to CONFIRMED
// publishes a broker event; publish failures never fail the request.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := authorizeReservation(ctx, c, h.Reservations, id)
	if err != nil {
		return respondError(c, err)
	}

	if req.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !validStatuses[s] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status", "fields": []string{"status"}})
		}
		req.Status = &s
	}

	uid, _ := currentUserID(c)
	if err := h.Reservations.Update(ctx, id, uid, repository.ReservationUpdate{
		Status: req.Status,
		Notes:  req.Notes,
	}); err != nil {
		return respondError(c, err)
	}

	updated, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	if req.Status != nil && *req.Status == model.ReservationConfirmed && res.Status != model.ReservationConfirmed {
		h.publishConfirmed(c, updated, uid)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ReservationHandler) publishConfirmed(c echo.Context, res *model.Reservation, actorID uint64) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	totals := map[string]int64{}
	if rows, err := h.Reservations.CurrencyTotals(ctx, res.ID); err == nil {
		for _, row := range rows {
			totals[row.Currency] = row.TotalPriceCents
		}
	}
	event := queue.ReservationConfirmedEvent{
		ReservationID:   res.ID,
		UserID:          res.UserID,
		ConfirmedBy:     actorID,
		Status:          res.Status,
		TotalPriceCents: res.TotalPriceCents,
		AmountPaidCents: res.AmountPaidCents,
		CurrencyTotals:  totals,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishReservationConfirmed(ctx, event); err != nil {
		log.Warn().Err(err).Uint64("reservation_id", res.ID).Msg("confirmed event not published")
	}
}

// Delete handles DELETE /v1/reservations/:id.  Foreign keys restrict the
// delete while service or pax rows remain; that surfaces as 422.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, id); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CurrencyTotals handles GET /v1/reservations/:id/currency-totals.
func (h *ReservationHandler) CurrencyTotals(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, id); err != nil {
		return respondError(c, err)
	}
	totals, err := h.Reservations.CurrencyTotals(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"currency_totals": totals})
}
