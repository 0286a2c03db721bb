package http

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

var registerDocOnce sync.Once

// apiDoc serves the embedded OpenAPI document to the swagger UI.
type apiDoc []byte

func (d apiDoc) ReadDoc() string {
	return string(d)
}

// NewRouter builds the echo instance with every route of the API, the
// request validator on /api/v1, the swagger UI and the health check.
func NewRouter(server *Server, spec []byte) (*echo.Echo, error) {
	validator, err := NewRequestValidator(spec)
	if err != nil {
		return nil, err
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, apiDoc(spec))
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", validator)
	v1.POST("/orders", server.CreateOrder)
	v1.GET("/orders/:order_id", server.GetOrderState)
	v1.POST("/orders/:order_id/lock", server.LockOrder)
	v1.DELETE("/orders/:order_id/lock", server.UnlockOrder)
	v1.PUT("/orders/:order_id/hold", server.SetOrderHold)
	v1.POST("/webhooks/orders/:order_id/transitions", server.EnqueueTransition)

	return e, nil
}
