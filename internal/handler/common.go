package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jmarinero/travel-reservation-api/internal/model"
	"github.com/jmarinero/travel-reservation-api/internal/policy"
	"github.com/jmarinero/travel-reservation-api/internal/repository"
)

// dbTimeout bounds every database round trip issued from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUserID extracts the authenticated user's ID from the context.  The
// JWT middleware stores the subject claim untyped; numeric claims decode as
// float64, but string subjects are tolerated too.
func currentUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return id, nil
		}
	case uint64:
		return v, nil
	}
	return 0, errors.New("no authenticated user in context")
}

func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// parseID reads a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// respondError maps domain errors onto HTTP responses.  Policy violations
// carry their offending fields; storage sentinels map one-to-one onto
// status codes.
func respondError(c echo.Context, err error) error {
	var v *policy.Violation
	if errors.As(err, &v) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": v.Reason, "fields": v.Fields})
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrIntegrity):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// authorizeReservation loads a reservation and checks the caller may act on
// it.  ADMIN may act on any reservation; everyone else only on their own.
func authorizeReservation(ctx context.Context, c echo.Context, repo *repository.ReservationRepo, id uint64) (*model.Reservation, error) {
	res, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uid, err := currentUserID(c)
	if err != nil {
		return nil, repository.ErrForbidden
	}
	if currentRole(c) != "ADMIN" && res.UserID != uid {
		return nil, repository.ErrForbidden
	}
	return res, nil
}

// parseOptionalDate converts a raw payload date into a *time.Time for a
// repository update struct.  The policies have already validated the value;
// a parse failure here means a policy was skipped, so it is still surfaced.
func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := policy.ParseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalAmount(field string, raw *string) (*int64, error) {
	if raw == nil {
		return nil, nil
	}
	cents, err := policy.ParseAmount(field, *raw)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}
