package handler

import (
	"log/slog"

	"dinein/config"
	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/delivery/http/response"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/errors"
	"dinein/internal/usecase"
	"dinein/internal/util"

	"github.com/labstack/echo/v4"
)

// SessionHandler serves phone entry, code verification and the profile screen.
type SessionHandler struct {
	session usecase.SessionUsecase
	table   usecase.TableUsecase
	cfg     *config.Config
	logger  *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(session usecase.SessionUsecase, table usecase.TableUsecase, cfg *config.Config, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		table:   table,
		cfg:     cfg,
		logger:  logger,
	}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type verifyOTPRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// PhoneEntry serves "/" and "/table/:id". A table id in the route (or in
// ?table=) is kept as the pending table until it can be bound.
func (h *SessionHandler) PhoneEntry(c echo.Context) error {
	ctx := c.Request().Context()
	view := PhoneEntryView{DefaultCountryCode: h.cfg.Auth.DefaultCountryCode}

	routeID := routeTableID(c)
	if routeID != "" {
		if err := h.table.Remember(ctx, routeID); err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Ignoring table link",
				slog.String("table_id", routeID),
				slog.Any("error", err),
			)
			view.Error = errorText(err)
			routeID = ""
		}
	}

	state := h.session.State()
	if state.Established() {
		switch {
		case state.HasTable():
			view.Redirect = RouteTableSession
		case routeID != "":
			view.Redirect = RouteScan
		default:
			view.Redirect = RouteProfile
		}

		return response.OK(c, view)
	}

	view.PendingTableID = h.table.Pending(ctx)
	view.Notice = h.session.TakeExpiryNotice()

	return response.OK(c, view)
}

func (h *SessionHandler) SendOTP(c echo.Context) error {
	var req sendOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	otp, err := h.session.RequestCode(c.Request().Context(), req.PhoneNumber)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.codeSent(otp.PhoneNumber, otp.DevOTP))
}

func (h *SessionHandler) ResendOTP(c echo.Context) error {
	otp, err := h.session.ResendCode(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, h.codeSent(otp.PhoneNumber, otp.DevOTP))
}

func (h *SessionHandler) codeSent(phone, devOTP string) CodeSentView {
	return CodeSentView{
		Nav:          Nav{Redirect: RouteVerifyOTP},
		PhoneNumber:  phone,
		PhoneDisplay: util.FormatPhoneForDisplay(phone),
		Countdown:    h.session.Countdown(),
		DevOTP:       devOTP,
	}
}

// VerifyOTPView redirects home when no code was requested.
func (h *SessionHandler) VerifyOTPView(c echo.Context) error {
	state := h.session.State()
	if state.Established() {
		return response.OK(c, VerifyOTPView{Nav: Nav{Redirect: landing(state)}})
	}
	if state.PhoneNumber == "" {
		return response.OK(c, VerifyOTPView{Nav: Nav{Redirect: RouteHome}})
	}

	countdown := h.session.Countdown()

	return response.OK(c, VerifyOTPView{
		PhoneNumber:  state.PhoneNumber,
		PhoneDisplay: util.FormatPhoneForDisplay(state.PhoneNumber),
		OTPLength:    h.cfg.Auth.OTPLength,
		Countdown:    countdown,
		CanResend:    countdown == 0,
		DevOTP:       h.session.DevOTPHint(c.Request().Context()),
	})
}

// VerifyOTP logs in and then binds the pending table, if any. A failed bind
// lands on the profile screen with the reason.
func (h *SessionHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	state, err := h.session.VerifyCode(ctx, req.OTP)
	if err != nil {
		return errors.WithStack(err)
	}

	view := ProfileView{
		Customer:     state.Customer,
		DisplayName:  state.Customer.DisplayName(),
		PhoneDisplay: util.FormatPhoneForDisplay(state.PhoneNumber),
	}

	table, err := h.table.Bind(ctx, "")
	switch {
	case err != nil:
		view.Redirect = RouteProfile
		view.Error = errorText(err)
	case table != nil:
		view.Redirect = RouteTableSession
	default:
		view.Redirect = landing(h.session.State())
	}

	return response.OK(c, view)
}

func (h *SessionHandler) Tick(c echo.Context) error {
	remaining := h.session.Tick()

	return response.OK(c, CountdownView{Countdown: remaining, CanResend: remaining == 0})
}

func (h *SessionHandler) Profile(c echo.Context) error {
	state := h.session.State()
	if !state.Established() || state.HasTable() {
		return response.OK(c, ProfileView{Nav: Nav{Redirect: landing(state)}})
	}

	return response.OK(c, ProfileView{
		Customer:       state.Customer,
		DisplayName:    state.Customer.DisplayName(),
		PhoneDisplay:   util.FormatPhoneForDisplay(state.PhoneNumber),
		PendingTableID: h.table.Pending(c.Request().Context()),
	})
}

func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if !h.session.State().Established() {
		return errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	if err := h.session.UpdateProfile(c.Request().Context(), req.Name); err != nil {
		return errors.WithStack(err)
	}

	state := h.session.State()

	return response.OK(c, ProfileView{
		Customer:     state.Customer,
		DisplayName:  state.Customer.DisplayName(),
		PhoneDisplay: util.FormatPhoneForDisplay(state.PhoneNumber),
	})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())

	return response.OK(c, Nav{Redirect: RouteHome})
}
