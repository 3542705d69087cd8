package impl

import (
	"context"
	"strings"

	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/usecase"

	"github.com/pkg/errors"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	api     service.CustomerAPI
	session usecase.SessionUsecase
}

// NewOrderService is the constructor for orderService.
func NewOrderService(api service.CustomerAPI, session usecase.SessionUsecase) usecase.OrderUsecase {
	return &orderService{api: api, session: session}
}

func (srv *orderService) List(ctx context.Context) ([]entity.Order, error) {
	if !srv.session.State().Established() {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	return srv.api.ListOrders(ctx)
}

func (srv *orderService) Get(ctx context.Context, orderID string) (*entity.Order, error) {
	if !srv.session.State().Established() {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, errors.WithStack(domainerrors.ErrValidation.WithDetails("order id is required"))
	}

	return srv.api.GetOrder(ctx, orderID)
}
