package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_shopping/internal/metrics"
	pkgdb "github.com/Skotchmaster/online_shopping/pkg/db"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
)

type Deps struct {
	OrderHandler   *OrderHTTP
	UserHandler    *UserHTTP
	CatalogHandler *CatalogHTTP
	DB             *gorm.DB
	Metrics        *metrics.HTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := pkgdb.Ping(ctx, d.DB); err != nil {
			logging.FromContext(ctx).Warn("not_ready", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.GET("/user/:userId", d.OrderHandler.GetUserOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus)

	users := api.Group("/users")
	users.GET("", d.UserHandler.GetUsers)
	users.GET("/:id", d.UserHandler.GetUser)
	users.POST("/register", d.UserHandler.Register)
	users.POST("/login", d.UserHandler.Login)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)
}
