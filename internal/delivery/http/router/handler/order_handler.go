package handler

import (
	"dinein/internal/delivery/http/response"
	"dinein/internal/domain/entity"
	"dinein/internal/errors"
	"dinein/internal/usecase"
	"dinein/internal/util"

	"github.com/labstack/echo/v4"
)

// OrderHandler serves order history.
type OrderHandler struct {
	session usecase.SessionUsecase
	orders  usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(session usecase.SessionUsecase, orders usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{session: session, orders: orders}
}

func (h *OrderHandler) List(c echo.Context) error {
	if !h.session.State().Established() {
		return response.OK(c, OrdersView{Nav: Nav{Redirect: RouteHome}, Orders: []entity.Order{}})
	}

	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	return response.OK(c, OrdersView{Orders: orders})
}

func (h *OrderHandler) Get(c echo.Context) error {
	if !h.session.State().Established() {
		return response.OK(c, OrderView{Nav: Nav{Redirect: RouteHome}})
	}

	order, err := h.orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, OrderView{Order: order, Total: util.FormatMoney(order.TotalAmount)})
}
