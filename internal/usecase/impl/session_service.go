// Package impl contains the stores and flows behind the route surface.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"dinein/config"
	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/domain/constants"
	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/repository"
	"dinein/internal/domain/service"
	"dinein/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const expiryNotice = "Your session has expired. Please login again."

// sessionService implements the SessionUsecase interface. It is the only
// writer of the credential store.
type sessionService struct {
	api            service.CustomerAPI
	credentials    service.CredentialStore
	state          repository.StateStore
	events         eventEmitter
	validate       *validator.Validate
	auth           config.AuthConfig
	productionMode bool
	logger         *slog.Logger

	mu        sync.Mutex
	phase     entity.Phase
	phone     string
	customer  *entity.Customer
	table     *entity.TableSession
	resend    countdown
	notice    string
	listeners []usecase.SessionListener
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	API         service.CustomerAPI
	Credentials service.CredentialStore
	State       repository.StateStore
	Publisher   service.EventPublisher `optional:"true"`
	Clock       service.Clock
	Config      *config.Config
	Logger      *slog.Logger
}

// NewSessionService is the constructor for sessionService. It installs itself
// as the single handler for 401 reports.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	srv := &sessionService{
		api:            params.API,
		credentials:    params.Credentials,
		state:          params.State,
		events:         eventEmitter{publisher: params.Publisher, clock: params.Clock, logger: params.Logger},
		validate:       newValidator(),
		auth:           *params.Config.Auth,
		productionMode: params.Config.Backend.ProductionMode,
		logger:         params.Logger,
	}
	params.Credentials.HandleExpiry(srv.handleExpiry)

	return srv
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// snapshotLocked must be called with mu held.
func (srv *sessionService) snapshotLocked() entity.SessionState {
	state := entity.SessionState{
		Phase:       srv.phase,
		PhoneNumber: srv.phone,
		Generation:  srv.credentials.Current().Generation,
	}
	if srv.customer != nil {
		customer := *srv.customer
		state.Customer = &customer
	}
	if srv.table != nil {
		table := *srv.table
		state.Table = &table
	}

	return state
}

func (srv *sessionService) State() entity.SessionState {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.snapshotLocked()
}

func (srv *sessionService) Subscribe(listener usecase.SessionListener) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.listeners = append(srv.listeners, listener)
}

func (srv *sessionService) notify(ctx context.Context, prev, next entity.SessionState) {
	if prev.Phase == next.Phase {
		return
	}

	srv.mu.Lock()
	listeners := append([]usecase.SessionListener(nil), srv.listeners...)
	srv.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, prev, next)
	}
}

// Restore re-establishes a session from a persisted credential.
func (srv *sessionService) Restore(ctx context.Context) error {
	token, err := srv.state.Get(ctx, constants.StorageKeyAuthToken)
	if errors.Is(err, repository.ErrStateNotFound) || (err == nil && token == "") {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read stored credential")
	}

	srv.mu.Lock()
	if srv.phase != entity.PhaseAnonymous {
		srv.mu.Unlock()

		return nil
	}
	prev := srv.snapshotLocked()
	srv.phase = entity.PhaseAuthenticating
	gen := srv.credentials.Set(token)
	srv.mu.Unlock()

	customer, table, err := srv.api.GetProfile(ctx)
	if err != nil {
		expired := errors.Is(err, domainerrors.ErrAuthExpired)
		srv.abandonLogin(ctx, gen, expired)
		if expired {
			srv.log(ctx).Info("Stored credential rejected, starting anonymous")

			return nil
		}

		return errors.Wrap(err, "failed to restore session")
	}

	next, ok := srv.establish(gen, customer, table)
	if !ok {
		srv.discardStaleToken(ctx)

		return nil
	}

	srv.log(ctx).Info("Session restored", slog.String("customer_id", customer.ID))
	srv.notify(ctx, prev, next)

	return nil
}

func (srv *sessionService) RequestCode(ctx context.Context, phoneNumber string) (*entity.OTPRequest, error) {
	phone, err := normalizePhone(srv.validate, phoneNumber, srv.auth.DefaultCountryCode)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	otp, err := srv.api.SendOTP(ctx, phone)
	if err != nil {
		srv.log(ctx).Warn("Failed to request OTP", slog.Any("error", err))

		return nil, err
	}

	srv.mu.Lock()
	srv.phone = phone
	srv.resend.start(srv.auth.OTPResendSeconds)
	srv.mu.Unlock()

	result := &entity.OTPRequest{PhoneNumber: phone}
	if otp.DevOTP != "" && !srv.productionMode {
		result.DevOTP = otp.DevOTP
		if err := srv.state.Set(ctx, constants.StorageKeyDevOTP, otp.DevOTP); err != nil {
			srv.log(ctx).Warn("Failed to store OTP hint", slog.Any("error", err))
		}
	}

	srv.log(ctx).Info("OTP requested")

	return result, nil
}

func (srv *sessionService) ResendCode(ctx context.Context) (*entity.OTPRequest, error) {
	srv.mu.Lock()
	phone := srv.phone
	ready := srv.resend.ready()
	srv.mu.Unlock()

	if phone == "" {
		return nil, errors.WithStack(domainerrors.ErrNoPendingPhone)
	}
	if !ready {
		return nil, errors.WithStack(domainerrors.ErrResendNotReady)
	}

	return srv.RequestCode(ctx, phone)
}

// VerifyCode exchanges the code for a credential. Between storing the
// credential and the first profile fetch the session is Authenticating, and
// 401 reports are ignored.
func (srv *sessionService) VerifyCode(ctx context.Context, code string) (entity.SessionState, error) {
	code = strings.TrimSpace(code)
	if err := validateOTP(srv.validate, code, srv.auth.OTPLength); err != nil {
		return srv.State(), errors.WithStack(err)
	}

	srv.mu.Lock()
	if srv.phone == "" {
		srv.mu.Unlock()

		return srv.State(), errors.WithStack(domainerrors.ErrNoPendingPhone)
	}
	switch srv.phase {
	case entity.PhaseAuthenticated:
		state := srv.snapshotLocked()
		srv.mu.Unlock()

		return state, nil
	case entity.PhaseAuthenticating:
		srv.mu.Unlock()

		return srv.State(), errors.WithStack(domainerrors.ErrConflict.WithDetails("verification already in progress"))
	}
	prev := srv.snapshotLocked()
	phone := srv.phone
	srv.phase = entity.PhaseAuthenticating
	srv.mu.Unlock()

	token, err := srv.api.VerifyOTP(ctx, phone, code)
	if err != nil {
		srv.mu.Lock()
		if srv.phase == entity.PhaseAuthenticating {
			srv.phase = entity.PhaseAnonymous
		}
		srv.mu.Unlock()
		srv.log(ctx).Info("OTP verification failed", slog.Any("error", err))

		return srv.State(), err
	}

	srv.mu.Lock()
	if srv.phase != entity.PhaseAuthenticating {
		// logged out while the code was being checked
		srv.mu.Unlock()

		return srv.State(), errors.WithStack(domainerrors.ErrNotAuthenticated)
	}
	gen := srv.credentials.Set(token)
	srv.mu.Unlock()

	if err := srv.state.Set(ctx, constants.StorageKeyAuthToken, token); err != nil {
		srv.log(ctx).Warn("Failed to persist credential", slog.Any("error", err))
	}

	customer, table, err := srv.api.GetProfile(ctx)
	if err != nil {
		srv.abandonLogin(ctx, gen, true)

		return srv.State(), errors.Wrap(err, "failed to load profile after verification")
	}

	next, ok := srv.establish(gen, customer, table)
	if !ok {
		srv.discardStaleToken(ctx)

		return next, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	if err := srv.state.Delete(ctx, constants.StorageKeyDevOTP); err != nil {
		srv.log(ctx).Warn("Failed to clear OTP hint", slog.Any("error", err))
	}

	srv.log(ctx).Info("Customer logged in", slog.String("customer_id", customer.ID))
	srv.notify(ctx, prev, next)
	srv.events.emit(ctx, service.SessionEvent{
		Type:       service.SessionEventLoggedIn,
		CustomerID: customer.ID,
		TableID:    tableID(table),
	})

	return next, nil
}

// establish moves Authenticating to Authenticated unless the credential
// changed underneath (logout or expiry while the profile was loading).
func (srv *sessionService) establish(gen uint64, customer *entity.Customer, table *entity.TableSession) (entity.SessionState, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.credentials.Current().Generation != gen || srv.phase != entity.PhaseAuthenticating {
		return srv.snapshotLocked(), false
	}

	srv.phase = entity.PhaseAuthenticated
	srv.customer = customer
	srv.table = table
	if customer != nil && customer.PhoneNumber != "" {
		srv.phone = customer.PhoneNumber
	}

	return srv.snapshotLocked(), true
}

// abandonLogin rolls an Authenticating session back to Anonymous.
func (srv *sessionService) abandonLogin(ctx context.Context, gen uint64, forgetToken bool) {
	srv.mu.Lock()
	if srv.credentials.Current().Generation != gen {
		srv.mu.Unlock()

		return
	}
	srv.credentials.Clear()
	srv.phase = entity.PhaseAnonymous
	srv.customer = nil
	srv.table = nil
	srv.mu.Unlock()

	if forgetToken {
		if err := srv.state.Delete(ctx, constants.StorageKeyAuthToken); err != nil {
			srv.log(ctx).Warn("Failed to clear credential", slog.Any("error", err))
		}
	}
}

// discardStaleToken removes a credential persisted by a login that lost a
// race with logout.
func (srv *sessionService) discardStaleToken(ctx context.Context) {
	if srv.State().Phase != entity.PhaseAnonymous {
		return
	}
	if err := srv.state.Delete(ctx, constants.StorageKeyAuthToken); err != nil {
		srv.log(ctx).Warn("Failed to clear credential", slog.Any("error", err))
	}
}

func (srv *sessionService) requireEstablished() (entity.SessionState, error) {
	state := srv.State()
	if !state.Established() {
		return state, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	return state, nil
}

// FetchProfile reloads the customer and table session. A 401 is handled by
// the central expiry handler, not here.
func (srv *sessionService) FetchProfile(ctx context.Context) (entity.SessionState, error) {
	state, err := srv.requireEstablished()
	if err != nil {
		return state, err
	}

	customer, table, err := srv.api.GetProfile(ctx)
	if err != nil {
		return srv.State(), err
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.credentials.Current().Generation != state.Generation {
		srv.log(ctx).Debug("Dropping stale profile response")

		return srv.snapshotLocked(), nil
	}
	srv.customer = customer
	srv.table = table

	return srv.snapshotLocked(), nil
}

func (srv *sessionService) UpdateProfile(ctx context.Context, name string) error {
	state, err := srv.requireEstablished()
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if err := srv.validate.Var(name, "required,max=100"); err != nil {
		return errors.WithStack(domainerrors.ErrValidation.WithDetails("name is required"))
	}

	if err := srv.api.UpdateProfile(ctx, name); err != nil {
		return err
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.credentials.Current().Generation == state.Generation && srv.customer != nil {
		srv.customer.Name = name
	}

	return nil
}

func (srv *sessionService) BindTable(ctx context.Context, identifier string) (*entity.TableSession, error) {
	state, err := srv.requireEstablished()
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := srv.state.Delete(ctx, constants.StorageKeyPendingTableID); err != nil {
			srv.log(ctx).Warn("Failed to clear pending table", slog.Any("error", err))
		}
	}()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errors.WithStack(domainerrors.ErrTableNotFound.WithDetails("empty table identifier"))
	}

	table, err := srv.api.ScanTable(ctx, identifier)
	if err != nil {
		srv.log(ctx).Info("Table bind failed", slog.String("table_id", identifier), slog.Any("error", err))

		return nil, err
	}

	srv.mu.Lock()
	if srv.credentials.Current().Generation != state.Generation {
		srv.mu.Unlock()

		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}
	srv.table = table
	srv.mu.Unlock()

	srv.log(ctx).Info("Table bound", slog.String("table_id", table.Table.ID))
	srv.events.emit(ctx, service.SessionEvent{
		Type:       service.SessionEventTableBound,
		CustomerID: customerID(state.Customer),
		TableID:    table.Table.ID,
	})

	return table, nil
}

func (srv *sessionService) Checkout(ctx context.Context) error {
	state, err := srv.requireEstablished()
	if err != nil {
		return err
	}
	if state.Table == nil {
		return nil
	}

	if err := srv.api.Checkout(ctx); err != nil {
		return err
	}

	srv.mu.Lock()
	if srv.credentials.Current().Generation == state.Generation {
		srv.table = nil
	}
	srv.mu.Unlock()

	srv.log(ctx).Info("Checked out", slog.String("table_id", state.Table.Table.ID))
	srv.events.emit(ctx, service.SessionEvent{
		Type:       service.SessionEventCheckedOut,
		CustomerID: customerID(state.Customer),
		TableID:    state.Table.Table.ID,
	})

	return nil
}

func (srv *sessionService) Logout(ctx context.Context) {
	srv.mu.Lock()
	prev := srv.snapshotLocked()
	srv.clearLocked()
	next := srv.snapshotLocked()
	srv.mu.Unlock()

	srv.forget(ctx)
	srv.notify(ctx, prev, next)

	if prev.Established() {
		srv.log(ctx).Info("Customer logged out")
		srv.events.emit(ctx, service.SessionEvent{
			Type:       service.SessionEventLoggedOut,
			CustomerID: customerID(prev.Customer),
		})
	}
}

// clearLocked drops every in-memory piece of session state.
func (srv *sessionService) clearLocked() {
	srv.credentials.Clear()
	srv.phase = entity.PhaseAnonymous
	srv.phone = ""
	srv.customer = nil
	srv.table = nil
	srv.resend.reset()
}

// forget deletes every persisted session key.
func (srv *sessionService) forget(ctx context.Context) {
	err := srv.state.Delete(ctx,
		constants.StorageKeyAuthToken,
		constants.StorageKeyPendingTableID,
		constants.StorageKeyDevOTP,
	)
	if err != nil {
		srv.log(ctx).Warn("Failed to clear persisted session", slog.Any("error", err))
	}
}

// handleExpiry receives every 401 report. Reports from an older credential
// generation, or made while Authenticating, are ignored; the first current
// report tears the session down and bumps the generation, so concurrent
// reports collapse into one teardown.
func (srv *sessionService) handleExpiry(ctx context.Context, generation uint64) {
	srv.mu.Lock()
	if srv.phase == entity.PhaseAuthenticating {
		srv.mu.Unlock()
		srv.log(ctx).Debug("Ignoring 401 while authenticating")

		return
	}
	if srv.phase == entity.PhaseAnonymous || srv.credentials.Current().Generation != generation {
		srv.mu.Unlock()

		return
	}
	prev := srv.snapshotLocked()
	srv.clearLocked()
	srv.notice = expiryNotice
	next := srv.snapshotLocked()
	srv.mu.Unlock()

	srv.log(ctx).Info("Session expired, tearing down", slog.String("customer_id", customerID(prev.Customer)))
	srv.forget(ctx)
	srv.notify(ctx, prev, next)
	srv.events.emit(ctx, service.SessionEvent{
		Type:       service.SessionEventSessionExpired,
		CustomerID: customerID(prev.Customer),
		TableID:    tableID(prev.Table),
	})
}

func (srv *sessionService) Countdown() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.resend.remaining
}

func (srv *sessionService) Tick() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.resend.tick()
}

func (srv *sessionService) DevOTPHint(ctx context.Context) string {
	if srv.productionMode {
		return ""
	}

	hint, err := srv.state.Get(ctx, constants.StorageKeyDevOTP)
	if err != nil {
		return ""
	}

	return hint
}

func (srv *sessionService) TakeExpiryNotice() string {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	notice := srv.notice
	srv.notice = ""

	return notice
}

func customerID(customer *entity.Customer) string {
	if customer == nil {
		return ""
	}

	return customer.ID
}

func tableID(table *entity.TableSession) string {
	if table == nil {
		return ""
	}

	return table.Table.ID
}
