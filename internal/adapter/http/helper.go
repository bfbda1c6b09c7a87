package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"garantia-backend/internal/domain/guarantee"
	"garantia-backend/internal/fee"
)

// ---- actor identity ----

// Actor identity is explicit on every mutating call: no session machinery,
// just two headers validated here and passed down as a value.
const (
	headerActorID   = "Ax-Actor-Id"
	headerActorRole = "Ax-Actor-Role"
)

func actorFromHeaders(c echo.Context) (guarantee.Actor, error) {
	rawID := strings.TrimSpace(c.Request().Header.Get(headerActorID))
	if !reHex32.MatchString(rawID) {
		return guarantee.Actor{}, errors.New("missing or invalid " + headerActorID)
	}
	role, ok := guarantee.ParseRole(strings.TrimSpace(c.Request().Header.Get(headerActorRole)))
	if !ok {
		return guarantee.Actor{}, errors.New("missing or unknown " + headerActorRole)
	}
	return guarantee.Actor{ID: rawID, Role: role}, nil
}

// ---- domain error → HTTP status ----

func writeDomainError(c echo.Context, err error) error {
	var payloadErr *guarantee.InvalidPayloadError
	switch {
	case errors.Is(err, guarantee.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "guarantee not found"})
	case errors.Is(err, guarantee.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "role not allowed to perform this transition"})
	case errors.Is(err, guarantee.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, guarantee.ErrConcurrentModification):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "guarantee was modified concurrently; reload and retry"})
	case errors.As(err, &payloadErr):
		details := make([]FieldError, 0, len(payloadErr.Fields))
		for _, f := range payloadErr.Fields {
			details = append(details, FieldError{Field: f, Message: "missing or out of range"})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid payload", Details: details})
	case errors.Is(err, fee.ErrInvalidInput):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
