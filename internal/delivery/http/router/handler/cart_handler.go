package handler

import (
	"net/http"

	"dinein/internal/delivery/http/response"
	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/errors"
	"dinein/internal/usecase"
	"dinein/internal/util"

	"github.com/labstack/echo/v4"
)

// CartHandler serves the cart tab. Every mutation answers with the cart as it
// stands after the backend replied.
type CartHandler struct {
	session usecase.SessionUsecase
	cart    usecase.CartUsecase
	menu    usecase.MenuUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(session usecase.SessionUsecase, cart usecase.CartUsecase, menu usecase.MenuUsecase) *CartHandler {
	return &CartHandler{session: session, cart: cart, menu: menu}
}

type addItemRequest struct {
	ProductID           string         `json:"productId" validate:"required"`
	Quantity            int            `json:"quantity" validate:"gte=0,lte=99"`
	Addons              []entity.Addon `json:"addons"`
	SpecialInstructions string         `json:"specialInstructions" validate:"max=500"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

type placeOrderRequest struct {
	SpecialInstructions string `json:"specialInstructions" validate:"max=500"`
}

func (h *CartHandler) requireSession() error {
	if !h.session.State().Established() {
		return errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	return nil
}

func (h *CartHandler) snapshot(c echo.Context) error {
	return response.OK(c, newCartView(h.cart.Snapshot()))
}

func (h *CartHandler) GetCart(c echo.Context) error {
	if !h.session.State().Established() {
		return response.OK(c, CartView{Nav: Nav{Redirect: RouteHome}, Lines: []CartLineView{}, Total: "0.00"})
	}

	return h.snapshot(c)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.requireSession(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	product, err := h.menu.Product(ctx, req.ProductID)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.cart.Add(ctx, usecase.AddItemInput{
		Product:             *product,
		Quantity:            req.Quantity,
		Addons:              req.Addons,
		SpecialInstructions: req.SpecialInstructions,
	}); err != nil {
		return errors.WithStack(err)
	}

	return h.snapshot(c)
}

func (h *CartHandler) ChangeQuantity(c echo.Context) error {
	var req changeQuantityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.requireSession(); err != nil {
		return err
	}

	if err := h.cart.ChangeQuantity(c.Request().Context(), c.Param("lineId"), req.Delta); err != nil {
		return errors.WithStack(err)
	}

	return h.snapshot(c)
}

func (h *CartHandler) RemoveLine(c echo.Context) error {
	if err := h.requireSession(); err != nil {
		return err
	}

	if err := h.cart.Remove(c.Request().Context(), c.Param("lineId")); err != nil {
		return errors.WithStack(err)
	}

	return h.snapshot(c)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.requireSession(); err != nil {
		return err
	}

	if err := h.cart.Clear(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return h.snapshot(c)
}

// PlaceOrder submits the server cart; the cart view afterwards is the refreshed one.
func (h *CartHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.requireSession(); err != nil {
		return err
	}

	order, err := h.cart.PlaceOrder(c.Request().Context(), req.SpecialInstructions)
	if err != nil {
		return errors.WithStack(err)
	}
	if order == nil {
		return errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	cart := newCartView(h.cart.Snapshot())

	return response.Success(c, http.StatusCreated, OrderView{
		Order: order,
		Total: util.FormatMoney(order.TotalAmount),
		Cart:  &cart,
	})
}
