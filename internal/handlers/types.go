package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"shuttleclub/internal/billing"
	"shuttleclub/internal/middleware"
	"shuttleclub/internal/services"
)

// actorFrom pulls the authenticated Actor out of the request context.
func actorFrom(c echo.Context) (services.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return services.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
	}
	return actor, nil
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(val), nil
}

// httpError maps service and billing errors onto HTTP statuses. Unknown
// errors become a 500 with a generic message; the original is logged by
// the error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, billing.ErrInvalidSlots),
		errors.Is(err, billing.ErrCapacityFull),
		errors.Is(err, billing.ErrRegistrationClosed),
		errors.Is(err, billing.ErrAlreadyRegistered),
		errors.Is(err, services.ErrNotRegistered),
		errors.Is(err, services.ErrSessionInactive),
		errors.Is(err, services.ErrPaymentAlreadyMade):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrMemberBanned):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Operation failed")
	}
}
