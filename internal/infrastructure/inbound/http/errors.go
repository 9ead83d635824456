package delivery_http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"community-feed-service/internal/domain/custom_errors"
	ports "community-feed-service/internal/domain/ports/output"
)

var kindStatus = map[custom_errors.ErrorKind]int{
	custom_errors.KindNotFound:            http.StatusNotFound,
	custom_errors.KindValidation:          http.StatusBadRequest,
	custom_errors.KindConflict:            http.StatusConflict,
	custom_errors.KindUpstreamUnavailable: http.StatusBadGateway,
	custom_errors.KindInvalidCredential:   http.StatusUnauthorized,
	custom_errors.KindInternal:            http.StatusInternalServerError,
}

type errorResponse struct {
	Error string                  `json:"error"`
	Kind  custom_errors.ErrorKind `json:"kind"`
}

// StatusFor maps an error to the HTTP status its kind is exposed as.
func StatusFor(err error) int {
	if status, ok := kindStatus[custom_errors.Kind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err and aborts the chain. Internal errors are logged and
// their text is not exposed.
func respondError(c *gin.Context, log ports.Logger, err error) {
	kind := custom_errors.Kind(err)
	status := StatusFor(err)

	message := err.Error()
	if kind == custom_errors.KindInternal {
		log.Error("Request failed",
			slog.String("route", c.FullPath()),
			slog.String("error", err.Error()))
		message = "internal server error"
	} else {
		log.Debug("Request rejected",
			slog.String("route", c.FullPath()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: message, Kind: kind})
}

func validationError(err error) error {
	return errors.Join(custom_errors.ErrValidation, err)
}
