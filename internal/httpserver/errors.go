package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_shopping/internal/mykafka"
	"github.com/Skotchmaster/online_shopping/internal/service"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs a service error under event and turns it into an echo HTTP error.
func fail(l *slog.Logger, event string, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, "internal error")
	}
	l.Warn(event, "status", status, "reason", err.Error())
	return echo.NewHTTPError(status, err.Error())
}

func parseID(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// publish sends an event after a successful write. Failures are only logged.
func publish(ctx context.Context, l *slog.Logger, pub mykafka.Publisher, topic string, id uint, eventType string, payload any) {
	if pub == nil {
		return
	}
	key := strconv.FormatUint(uint64(id), 10)
	if err := pub.PublishEvent(ctx, topic, key, mykafka.NewEnvelope(eventType, payload)); err != nil {
		l.Error("kafka_publish_failed", "topic", topic, "type", eventType, "error", err)
	}
}
