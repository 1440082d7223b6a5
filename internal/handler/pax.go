package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jmarinero/travel-reservation-api/internal/aggregate"
	"github.com/jmarinero/travel-reservation-api/internal/config"
	"github.com/jmarinero/travel-reservation-api/internal/model"
	"github.com/jmarinero/travel-reservation-api/internal/policy"
	"github.com/jmarinero/travel-reservation-api/internal/repository"
)

// PaxHandler serves the passenger endpoints.  Pax mutations carry no money,
// so the parent reservation is touched with a zero adjustment purely to
// stamp the actor and bump its updated_at.
type PaxHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Pax          *repository.PaxRepo
}

func NewPaxHandler(cfg config.Config, res *repository.ReservationRepo, pax *repository.PaxRepo) *PaxHandler {
	return &PaxHandler{Cfg: cfg, Reservations: res, Pax: pax}
}

type paxReq struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	BirthDate      *string `json:"birth_date"`
	PassportNumber *string `json:"passport_number"`
	PassportExpiry *string `json:"passport_expiry"`
	DNINumber      *string `json:"dni_number"`
	DNIExpiry      *string `json:"dni_expiry"`
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// documents merges the payload's document fields with the persisted values
// so a partial update is validated against the effective document set.
func (req paxReq) documents(current *model.Pax) policy.DocumentsInput {
	in := policy.DocumentsInput{
		PassportNumber: req.PassportNumber,
		PassportExpiry: req.PassportExpiry,
		DNINumber:      req.DNINumber,
		DNIExpiry:      req.DNIExpiry,
	}
	if current == nil {
		return in
	}
	if in.PassportNumber == nil {
		in.PassportNumber = current.PassportNumber
	}
	if in.PassportExpiry == nil {
		in.PassportExpiry = dateString(current.PassportExpiry)
	}
	if in.DNINumber == nil {
		in.DNINumber = current.DNINumber
	}
	if in.DNIExpiry == nil {
		in.DNIExpiry = dateString(current.DNIExpiry)
	}
	return in
}

// Create handles POST /v1/reservations/:id/pax.
func (h *PaxHandler) Create(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req paxReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FirstName == nil || strings.TrimSpace(*req.FirstName) == "" ||
		req.LastName == nil || strings.TrimSpace(*req.LastName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name required", "fields": []string{"first_name", "last_name"}})
	}
	if err := policy.CheckDocumentsCreate(req.documents(nil)); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	uid, _ := currentUserID(c)

	birthDate, err := parseOptionalDate("birth_date", req.BirthDate)
	if err != nil {
		return respondError(c, err)
	}
	passportExpiry, err := parseOptionalDate("passport_expiry", req.PassportExpiry)
	if err != nil {
		return respondError(c, err)
	}
	dniExpiry, err := parseOptionalDate("dni_expiry", req.DNIExpiry)
	if err != nil {
		return respondError(c, err)
	}

	pax := &model.Pax{
		ReservationID:  reservationID,
		FirstName:      strings.TrimSpace(*req.FirstName),
		LastName:       strings.TrimSpace(*req.LastName),
		BirthDate:      birthDate,
		PassportNumber: req.PassportNumber,
		PassportExpiry: passportExpiry,
		DNINumber:      req.DNINumber,
		DNIExpiry:      dniExpiry,
		CreatedBy:      uid,
		UpdatedBy:      uid,
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

	if err := h.Pax.CreateTx(ctx, tx, pax); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.TouchTx(ctx, tx, reservationID, uid, aggregate.Adjustment{}); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed = true
	return c.JSON(http.StatusCreated, pax)
}

// List handles GET /v1/reservations/:id/pax.
func (h *PaxHandler) List(c echo.Context) error {
	reservationID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := authorizeReservation(ctx, c, h.Reservations, reservationID); err != nil {
		return respondError(c, err)
	}
	list, err := h.Pax.ListByReservation(ctx, reservationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pax": list})
}

// Get handles GET /v1/pax/:id.
func (h *PaxHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	pax, err := h.Pax.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, pax.ReservationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pax)
}

// Update handles PATCH /v1/pax/:id.
func (h *PaxHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req paxReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Pax.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := authorizeReservation(ctx, c, h.Reservations, current.ReservationID); err != nil {
		return respondError(c, err)
	}
	if err := policy.CheckDocumentsUpdate(req.documents(current)); err != nil {
		return respondError(c, err)
	}
	uid, _ := currentUserID(c)

	birthDate, err := parseOptionalDate("birth_date", req.BirthDate)
	if err != nil {
		return respondError(c, err)
	}
	passportExpiry, err := parseOptionalDate("passport_expiry", req.PassportExpiry)
	if err != nil {
		return respondError(c, err)
	}
	dniExpiry, err := parseOptionalDate("dni_expiry", req.DNIExpiry)
	if err != nil {
		return respondError(c, err)
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

	if err := h.Pax.UpdateTx(ctx, tx, id, uid, repository.PaxUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BirthDate:      birthDate,
		PassportNumber: req.PassportNumber,
		PassportExpiry: passportExpiry,
		DNINumber:      req.DNINumber,
		DNIExpiry:      dniExpiry,
	}); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.TouchTx(ctx, tx, current.ReservationID, uid, aggregate.Adjustment{}); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed = true

	updated, err := h.Pax.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/pax/:id.  A schema trigger rejects removing the
// sole pax of a confirmed reservation; that surfaces as 422.
func (h *PaxHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Pax.GetByID(ctx, id)
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

	if err := h.Pax.DeleteTx(ctx, tx, id); err != nil {
		return respondError(c, err)
	}
	if err := h.Reservations.TouchTx(ctx, tx, current.ReservationID, uid, aggregate.Adjustment{}); err != nil {
		return respondError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondError(c, repository.Translate(err))
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
