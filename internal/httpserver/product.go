package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_shopping/internal/mykafka"
	"github.com/Skotchmaster/online_shopping/internal/service"
	"github.com/Skotchmaster/online_shopping/internal/transport"
	"github.com/Skotchmaster/online_shopping/internal/util"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
)

type CatalogHTTP struct {
	Svc    *service.CatalogService
	Events mykafka.Publisher
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.List(ctx, c.QueryParam("category"), c.QueryParam("name"))
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": map[string]any{
			"page":        res.Page,
			"size":        res.Size,
			"total":       res.Total,
			"total_pages": (res.Total + int64(res.Size) - 1) / int64(res.Size),
			"has_prev":    res.Page > 1,
			"has_next":    int64(res.Page*res.Size) < res.Total,
		},
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicProductEvents, prod.ID, "product_created", prod)
	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_product_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicProductEvents, prod.ID, "product_updated", prod)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a number")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	publish(ctx, l, h.Events, mykafka.TopicProductEvents, id, "product_deleted", map[string]any{"id": id})
	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
