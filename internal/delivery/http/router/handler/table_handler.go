package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/delivery/http/response"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/errors"
	"dinein/internal/usecase"
	"dinein/internal/util"

	"github.com/labstack/echo/v4"
)

// TableHandler serves table binding, the table session screen and table QR codes.
type TableHandler struct {
	session usecase.SessionUsecase
	table   usecase.TableUsecase
	cart    usecase.CartUsecase
	qrcode  service.QRCodeService
	clock   service.Clock
	logger  *slog.Logger
}

// NewTableHandler is the constructor for TableHandler, injected by Fx.
func NewTableHandler(
	session usecase.SessionUsecase,
	table usecase.TableUsecase,
	cart usecase.CartUsecase,
	qrcode service.QRCodeService,
	clock service.Clock,
	logger *slog.Logger,
) *TableHandler {
	return &TableHandler{
		session: session,
		table:   table,
		cart:    cart,
		qrcode:  qrcode,
		clock:   clock,
		logger:  logger,
	}
}

type scanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// ScanView binds ?table= or the stored pending table straight away.
func (h *TableHandler) ScanView(c echo.Context) error {
	state := h.session.State()
	if !state.Established() || state.HasTable() {
		return response.OK(c, ScanView{Nav: Nav{Redirect: landing(state)}})
	}

	ctx := c.Request().Context()
	routeID := routeTableID(c)
	pending := routeID
	if pending == "" {
		pending = h.table.Pending(ctx)
	}
	if pending == "" {
		return response.OK(c, ScanView{})
	}

	table, err := h.table.Bind(ctx, routeID)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Pending table could not be bound",
			slog.String("table_id", pending),
			slog.Any("error", err),
		)

		return response.OK(c, ScanView{PendingTableID: pending, Error: errorText(err)})
	}
	if table == nil {
		return response.OK(c, ScanView{})
	}

	return response.OK(c, ScanView{Nav: Nav{Redirect: RouteTableSession}, Table: table})
}

func (h *TableHandler) Scan(c echo.Context) error {
	var req scanRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	table, err := h.table.Scan(c.Request().Context(), req.Payload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, ScanView{Nav: Nav{Redirect: RouteTableSession}, Table: table})
}

func (h *TableHandler) TableSession(c echo.Context) error {
	state := h.session.State()
	switch {
	case !state.Established():
		return response.OK(c, TableSessionView{Nav: Nav{Redirect: RouteHome}})
	case !state.HasTable():
		return response.OK(c, TableSessionView{Nav: Nav{Redirect: RouteScan}})
	}

	cart := newCartView(h.cart.Snapshot())

	return response.OK(c, TableSessionView{
		Table:     state.Table,
		StartedAt: state.Table.StartTime,
		Duration:  util.FormatSessionDuration(state.Table.Duration(h.clock.Now())),
		Cart:      &cart,
	})
}

func (h *TableHandler) Checkout(c echo.Context) error {
	if !h.session.State().Established() {
		return errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	if err := h.table.Checkout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, Nav{Redirect: RouteProfile})
}

// QRCode renders the printable code for a table.
func (h *TableHandler) QRCode(c echo.Context) error {
	png, err := h.qrcode.GenerateTableQR(c.Param("id"))
	if err != nil {
		return errors.WithStack(domainerrors.ErrTableNotFound.WithDetails(err.Error()))
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
