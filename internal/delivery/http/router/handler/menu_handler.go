package handler

import (
	"dinein/internal/delivery/http/response"
	"dinein/internal/errors"
	"dinein/internal/usecase"

	"github.com/labstack/echo/v4"
)

// MenuHandler serves the menu tab.
type MenuHandler struct {
	session usecase.SessionUsecase
	menu    usecase.MenuUsecase
}

// NewMenuHandler is the constructor for MenuHandler, injected by Fx.
func NewMenuHandler(session usecase.SessionUsecase, menu usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{session: session, menu: menu}
}

func (h *MenuHandler) Menu(c echo.Context) error {
	if !h.session.State().Established() {
		return response.OK(c, MenuView{Nav: Nav{Redirect: RouteHome}})
	}

	view, err := h.menu.Browse(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, MenuView{MenuView: view})
}
