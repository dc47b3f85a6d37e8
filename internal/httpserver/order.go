package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_shopping/internal/mykafka"
	"github.com/Skotchmaster/online_shopping/internal/service"
	"github.com/Skotchmaster/online_shopping/internal/transport"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
)

const maxStatusBody = 1 << 10

var errStatusTooLarge = errors.New("status body too large")

type OrderHTTP struct {
	Svc    *service.OrderService
	Events mykafka.Publisher
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	orders, err := h.Svc.GetAll(ctx)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	order, err := h.Svc.GetByID(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_user_orders")

	userID, err := parseID(c, "userId")
	if err != nil {
		l.Warn("get_user_orders_error", "status", 400, "reason", "userId is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "userId is not a number")
	}

	orders, err := h.Svc.GetByUser(ctx, userID)
	if err != nil {
		return fail(l, "get_user_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicOrderEvents, order.ID, "order_created", order)
	l.Info("create_order_success", "order_id", order.ID, "user_id", order.UserID)
	return c.JSON(http.StatusCreated, order)
}

// readStatus takes the request body as the new status. Surrounding whitespace is
// trimmed, then a JSON string literal such as "SHIPPED" is unquoted and its
// content kept verbatim; anything else is used as sent. Bodies over
// maxStatusBody bytes are rejected rather than cut.
func readStatus(body io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxStatusBody+1))
	if err != nil {
		return "", err
	}
	if len(raw) > maxStatusBody {
		return "", errStatusTooLarge
	}
	status := strings.TrimSpace(string(raw))
	if strings.HasPrefix(status, `"`) {
		var s string
		if err := json.Unmarshal([]byte(status), &s); err == nil {
			return s, nil
		}
	}
	return status, nil
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	status, err := readStatus(c.Request().Body)
	if errors.Is(err, errStatusTooLarge) {
		l.Warn("update_status_error", "status", 413, "reason", "status body too large")
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "status body too large")
	}
	if err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "cannot read body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return fail(l, "update_status_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicOrderEvents, order.ID, "order_status_updated", map[string]any{
		"id":     order.ID,
		"status": order.Status,
	})
	l.Info("update_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}
