package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/domain/constants"
	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/repository"
	"dinein/internal/domain/service"
	"dinein/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// tableService implements the TableUsecase interface.
type tableService struct {
	session usecase.SessionUsecase
	cart    usecase.CartUsecase
	state   repository.StateStore
	qrcode  service.QRCodeService
	logger  *slog.Logger
}

// TableServiceParams holds dependencies for TableService, injected by Fx.
type TableServiceParams struct {
	fx.In

	Session usecase.SessionUsecase
	Cart    usecase.CartUsecase
	State   repository.StateStore
	QRCode  service.QRCodeService
	Logger  *slog.Logger
}

// NewTableService is the constructor for tableService.
func NewTableService(params TableServiceParams) usecase.TableUsecase {
	return &tableService{
		session: params.Session,
		cart:    params.Cart,
		state:   params.State,
		qrcode:  params.QRCode,
		logger:  params.Logger,
	}
}

func (srv *tableService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *tableService) Remember(ctx context.Context, identifier string) error {
	identifier, err := srv.qrcode.ParseTablePayload(identifier)
	if err != nil {
		return errors.WithStack(domainerrors.ErrTableNotFound.WithDetails(err.Error()))
	}

	if err := srv.state.Set(ctx, constants.StorageKeyPendingTableID, identifier); err != nil {
		return errors.Wrap(err, "failed to store pending table")
	}

	srv.log(ctx).Debug("Pending table stored", slog.String("table_id", identifier))

	return nil
}

func (srv *tableService) Pending(ctx context.Context) string {
	identifier, err := srv.state.Get(ctx, constants.StorageKeyPendingTableID)
	if err != nil {
		return ""
	}

	return identifier
}

// Bind prefers the route identifier over the stored marker. Before login the
// route identifier is only remembered.
func (srv *tableService) Bind(ctx context.Context, routeID string) (*entity.TableSession, error) {
	routeID = strings.TrimSpace(routeID)

	if !srv.session.State().Established() {
		if routeID != "" {
			if err := srv.Remember(ctx, routeID); err != nil {
				return nil, err
			}
		}

		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	identifier := routeID
	if identifier == "" {
		identifier = srv.Pending(ctx)
	}
	if identifier == "" {
		return nil, nil
	}

	return srv.session.BindTable(ctx, identifier)
}

func (srv *tableService) Scan(ctx context.Context, payload string) (*entity.TableSession, error) {
	identifier, err := srv.qrcode.ParseTablePayload(payload)
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrTableNotFound.WithDetails("unrecognised QR code"))
	}

	return srv.Bind(ctx, identifier)
}

// Checkout ends the table session; a successful checkout also empties the cart.
// Without an active table it does nothing.
func (srv *tableService) Checkout(ctx context.Context) error {
	if state := srv.session.State(); state.Established() && !state.HasTable() {
		return nil
	}

	if err := srv.session.Checkout(ctx); err != nil {
		return err
	}

	if err := srv.cart.Clear(ctx); err != nil {
		srv.log(ctx).Warn("Failed to clear cart after checkout", slog.Any("error", err))
	}

	return nil
}
