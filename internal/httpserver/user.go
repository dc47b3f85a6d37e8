package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_shopping/internal/mykafka"
	"github.com/Skotchmaster/online_shopping/internal/service"
	"github.com/Skotchmaster/online_shopping/internal/transport"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
)

type UserHTTP struct {
	Svc    *service.UserService
	Events mykafka.Publisher
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_user_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicUserEvents, user.ID, "user_registered", user)
	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_user_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_user_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicUserEvents, user.ID, "user_updated", user)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_user_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_user_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicUserEvents, id, "user_deleted", map[string]any{"id": id})
	l.Info("delete_user_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_id", res.ID)
	return c.JSON(http.StatusOK, res)
}
