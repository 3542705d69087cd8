package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// menuService implements the MenuUsecase interface. The last menu is kept
// for product lookups until the session generation changes.
type menuService struct {
	api     service.CustomerAPI
	session usecase.SessionUsecase
	logger  *slog.Logger

	mu         sync.Mutex
	menu       *entity.Menu
	generation uint64
}

// MenuServiceParams holds dependencies for MenuService, injected by Fx.
type MenuServiceParams struct {
	fx.In

	API     service.CustomerAPI
	Session usecase.SessionUsecase
	Logger  *slog.Logger
}

// NewMenuService is the constructor for menuService.
func NewMenuService(params MenuServiceParams) usecase.MenuUsecase {
	return &menuService{
		api:     params.API,
		session: params.Session,
		logger:  params.Logger,
	}
}

func (srv *menuService) load(ctx context.Context, useCache bool) (*entity.Menu, error) {
	state := srv.session.State()
	if !state.Established() {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	srv.mu.Lock()
	if useCache && srv.menu != nil && srv.generation == state.Generation {
		menu := srv.menu
		srv.mu.Unlock()

		return menu, nil
	}
	srv.mu.Unlock()

	menu, err := srv.api.GetMenu(ctx)
	if err != nil {
		return nil, err
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Menu loaded",
		slog.Int("categories", len(menu.Categories)),
		slog.Int("products", len(menu.Products)),
	)

	srv.mu.Lock()
	srv.menu = menu
	srv.generation = state.Generation
	srv.mu.Unlock()

	return menu, nil
}

// Browse always fetches a fresh menu.
func (srv *menuService) Browse(ctx context.Context, search string) (*entity.MenuView, error) {
	menu, err := srv.load(ctx, false)
	if err != nil {
		return nil, err
	}

	view := menu.View(search)

	return &view, nil
}

func (srv *menuService) Product(ctx context.Context, productID string) (*entity.Product, error) {
	menu, err := srv.load(ctx, true)
	if err != nil {
		return nil, err
	}

	product, ok := menu.Product(productID)
	if !ok {
		// the cached menu may predate the product
		if menu, err = srv.load(ctx, false); err != nil {
			return nil, err
		}
		if product, ok = menu.Product(productID); !ok {
			return nil, errors.WithStack(domainerrors.ErrNotFound.WithDetails("product not found"))
		}
	}
	if !product.Available {
		return nil, errors.WithStack(domainerrors.ErrValidation.WithDetails(product.Name + " is not available"))
	}

	return &product, nil
}
