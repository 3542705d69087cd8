// Package router registers the customer screens on echo.
package router

import (
	"net/http"

	"dinein/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler *handler.SessionHandler
	TableHandler   *handler.TableHandler
	MenuHandler    *handler.MenuHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	HealthHandler  *handler.HealthHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	session *handler.SessionHandler
	table   *handler.TableHandler
	menu    *handler.MenuHandler
	cart    *handler.CartHandler
	orders  *handler.OrderHandler
	health  *handler.HealthHandler
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		session: params.SessionHandler,
		table:   params.TableHandler,
		menu:    params.MenuHandler,
		cart:    params.CartHandler,
		orders:  params.OrderHandler,
		health:  params.HealthHandler,
	}
}

// RegisterRoutes sets up every screen. Unknown paths go back to phone entry.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.health.HealthCheck)

	// Phone entry and login
	e.GET("/", r.session.PhoneEntry)
	e.GET("/table/:id", r.session.PhoneEntry)
	e.POST("/send-otp", r.session.SendOTP)
	e.GET("/verify-otp", r.session.VerifyOTPView)
	e.POST("/verify-otp", r.session.VerifyOTP)
	e.POST("/resend-otp", r.session.ResendOTP)
	e.POST("/tick", r.session.Tick)

	// Profile
	e.GET("/profile", r.session.Profile)
	e.PUT("/profile", r.session.UpdateProfile)
	e.POST("/logout", r.session.Logout)

	// Table
	e.GET("/scan", r.table.ScanView)
	e.GET("/select-table", r.table.ScanView)
	e.POST("/scan", r.table.Scan)
	e.GET("/table-session", r.table.TableSession)
	e.POST("/checkout", r.table.Checkout)
	e.GET("/table/:id/qr.png", r.table.QRCode)

	// Menu and cart
	e.GET("/menu", r.menu.Menu)
	cartGroup := e.Group("/cart")
	{
		cartGroup.GET("", r.cart.GetCart)
		cartGroup.POST("", r.cart.AddItem)
		cartGroup.DELETE("", r.cart.ClearCart)
		cartGroup.PATCH("/:lineId", r.cart.ChangeQuantity)
		cartGroup.DELETE("/:lineId", r.cart.RemoveLine)
	}

	// Orders
	e.POST("/orders", r.cart.PlaceOrder)
	e.GET("/orders", r.orders.List)
	e.GET("/orders/:id", r.orders.Get)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, handler.RouteHome)
	})
}
