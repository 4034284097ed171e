package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}

// writeServiceError maps an error returned by the service onto a status code.
func writeServiceError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, ErrModelNotFound):
		return writeNotFound(c, err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// decodeJSON decodes a request body. An empty body decodes to the zero
// value so that bodies made only of optional fields can be omitted.
func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	if r == nil {
		return out, nil
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		return out, err
	}
	return out, nil
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
