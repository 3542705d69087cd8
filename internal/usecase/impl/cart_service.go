package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/domain/constants"
	"dinein/internal/domain/entity"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface. Every edit is applied
// locally first and settled when the backend answers: committed edits are
// reconciled with a refresh, failed edits restore the exact pre-edit snapshot.
type cartService struct {
	api     service.CustomerAPI
	session usecase.SessionUsecase
	events  eventEmitter
	logger  *slog.Logger

	mu        sync.Mutex
	cart      entity.Cart
	version   uint64
	observers []func(usecase.Mutation)
}

// checkpoint is the cart an edit restores on failure, plus the cart version
// the edit itself produced.
type checkpoint struct {
	cart    entity.Cart
	version uint64
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	API       service.CustomerAPI
	Session   usecase.SessionUsecase
	Publisher service.EventPublisher `optional:"true"`
	Clock     service.Clock
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService. The cart follows the
// session: it is emptied whenever the session ends and refreshed when one is
// established.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	srv := &cartService{
		api:     params.API,
		session: params.Session,
		events:  eventEmitter{publisher: params.Publisher, clock: params.Clock, logger: params.Logger},
		logger:  params.Logger,
		cart:    emptyCart(),
	}
	params.Session.Subscribe(srv.onSessionChange)

	return srv
}

func emptyCart() entity.Cart {
	return entity.NewCart([]entity.CartLine{})
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// setLocked replaces the cart. Must be called with mu held.
func (srv *cartService) setLocked(cart entity.Cart) {
	srv.cart = cart
	srv.version++
}

func (srv *cartService) onSessionChange(ctx context.Context, _, next entity.SessionState) {
	srv.mu.Lock()
	srv.setLocked(emptyCart())
	srv.mu.Unlock()

	if !next.Established() {
		return
	}

	if err := srv.Refresh(ctx); err != nil {
		srv.log(ctx).Warn("Failed to load cart for new session", slog.Any("error", err))
	}
}

// established returns the session generation when authenticated calls may be made.
func (srv *cartService) established() (uint64, bool) {
	state := srv.session.State()

	return state.Generation, state.Established()
}

// current reports whether a response captured under gen may still be applied.
func (srv *cartService) current(gen uint64) bool {
	state := srv.session.State()

	return state.Established() && state.Generation == gen
}

func (srv *cartService) Snapshot() entity.Cart {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.cart.Clone()
}

func (srv *cartService) Watch(observer func(usecase.Mutation)) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.observers = append(srv.observers, observer)
}

// report must be called without mu held.
func (srv *cartService) report(m usecase.Mutation) {
	srv.mu.Lock()
	observers := slices.Clone(srv.observers)
	srv.mu.Unlock()

	for _, observer := range observers {
		observer(m)
	}
}

// pendingLocked applies next as the optimistic cart and returns the
// checkpoint to restore on failure. Must be called with mu held.
func (srv *cartService) pendingLocked(kind usecase.MutationKind, lineID string, next []entity.CartLine) (usecase.Mutation, checkpoint) {
	snapshot := srv.cart.Clone()
	srv.setLocked(entity.NewCart(next))

	return usecase.Mutation{
		Kind:   kind,
		LineID: lineID,
		Status: usecase.MutationPending,
		Cart:   srv.cart.Clone(),
	}, checkpoint{cart: snapshot, version: srv.version}
}

// settle finishes an optimistic edit once the backend answered with callErr.
// A revert restores the exact checkpoint; if other edits landed in between,
// the restored cart is then reconciled with the server.
func (srv *cartService) settle(ctx context.Context, gen uint64, m usecase.Mutation, snapshot checkpoint, callErr error) error {
	var diverged bool

	srv.mu.Lock()
	switch {
	case !srv.current(gen):
		m.Status = usecase.MutationAbandoned
	case callErr != nil:
		diverged = srv.version != snapshot.version
		srv.setLocked(snapshot.cart)
		m.Status = usecase.MutationReverted
	default:
		m.Status = usecase.MutationCommitted
	}
	m.Err = callErr
	m.Cart = srv.cart.Clone()
	srv.mu.Unlock()

	srv.report(m)

	switch m.Status {
	case usecase.MutationAbandoned:
		srv.log(ctx).Debug("Ignoring cart response from an ended session", slog.String("kind", string(m.Kind)))

		return callErr
	case usecase.MutationReverted:
		srv.log(ctx).Warn("Cart update failed, reverted",
			slog.String("kind", string(m.Kind)),
			slog.String("line_id", m.LineID),
			slog.Any("error", callErr),
		)

		if diverged {
			if err := srv.Refresh(ctx); err != nil {
				srv.log(ctx).Warn("Cart reconciliation failed", slog.String("kind", string(m.Kind)), slog.Any("error", err))
			}
		}

		return callErr
	}

	if err := srv.Refresh(ctx); err != nil {
		srv.log(ctx).Warn("Cart reconciliation failed", slog.String("kind", string(m.Kind)), slog.Any("error", err))
	}

	return nil
}

// Refresh replaces the local cart with the server cart. The total is always
// recomputed from the lines.
func (srv *cartService) Refresh(ctx context.Context) error {
	gen, ok := srv.established()
	if !ok {
		srv.mu.Lock()
		srv.setLocked(emptyCart())
		srv.mu.Unlock()

		return nil
	}

	remote, err := srv.api.GetCart(ctx)
	if err != nil {
		return err
	}

	lines := remote.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	local := entity.NewCart(lines)
	if !local.Total.Equal(remote.Total) {
		srv.log(ctx).Warn("Server cart total differs from line sum",
			slog.String("server_total", remote.Total.StringFixed(2)),
			slog.String("line_total", local.Total.StringFixed(2)),
		)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if !srv.current(gen) {
		return nil
	}
	srv.setLocked(local)

	return nil
}

func (srv *cartService) Add(ctx context.Context, input usecase.AddItemInput) error {
	gen, ok := srv.established()
	if !ok {
		return nil
	}

	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 0 || strings.TrimSpace(input.Product.ID) == "" {
		return errors.WithStack(domainerrors.ErrValidation.WithDetails("a product and a positive quantity are required"))
	}

	line := entity.CartLine{
		ID:                  constants.TempLinePrefix + uuid.New().String(),
		ProductID:           input.Product.ID,
		Name:                input.Product.Name,
		UnitPrice:           input.Product.Price,
		Quantity:            input.Quantity,
		Addons:              slices.Clone(input.Addons),
		SpecialInstructions: strings.TrimSpace(input.SpecialInstructions),
	}

	srv.mu.Lock()
	m, snapshot := srv.pendingLocked(usecase.MutationAdd, line.ID, append(slices.Clone(srv.cart.Lines), line))
	srv.mu.Unlock()
	srv.report(m)

	err := srv.api.AddToCart(ctx, service.CartItemInput{
		ProductID:           line.ProductID,
		Quantity:            line.Quantity,
		Addons:              line.Addons,
		SpecialInstructions: line.SpecialInstructions,
	})

	return srv.settle(ctx, gen, m, snapshot, err)
}

func (srv *cartService) ChangeQuantity(ctx context.Context, lineID string, delta int) error {
	gen, ok := srv.established()
	if !ok {
		return nil
	}

	srv.mu.Lock()
	idx := srv.cart.Find(lineID)
	if idx < 0 {
		srv.mu.Unlock()
		// a decrement that already removed the line has reached its end state
		if delta <= 0 {
			return nil
		}

		return errors.WithStack(domainerrors.ErrCartLineNotFound)
	}
	if delta == 0 {
		srv.mu.Unlock()

		return nil
	}
	quantity := srv.cart.Lines[idx].Quantity + delta
	if quantity <= 0 {
		srv.mu.Unlock()

		return srv.Remove(ctx, lineID)
	}
	if srv.cart.Lines[idx].Temporary() {
		srv.mu.Unlock()

		return errors.WithStack(domainerrors.ErrConflict.WithDetails("item is still being added"))
	}

	lines := slices.Clone(srv.cart.Lines)
	lines[idx].Quantity = quantity
	m, snapshot := srv.pendingLocked(usecase.MutationChangeQuantity, lineID, lines)
	srv.mu.Unlock()
	srv.report(m)

	err := srv.api.UpdateCartItem(ctx, lineID, quantity)

	return srv.settle(ctx, gen, m, snapshot, err)
}

func (srv *cartService) Remove(ctx context.Context, lineID string) error {
	gen, ok := srv.established()
	if !ok {
		return nil
	}

	srv.mu.Lock()
	idx := srv.cart.Find(lineID)
	if idx < 0 {
		srv.mu.Unlock()

		return errors.WithStack(domainerrors.ErrCartLineNotFound)
	}
	if srv.cart.Lines[idx].Temporary() {
		srv.mu.Unlock()

		return errors.WithStack(domainerrors.ErrConflict.WithDetails("item is still being added"))
	}

	lines := slices.Delete(slices.Clone(srv.cart.Lines), idx, idx+1)
	m, snapshot := srv.pendingLocked(usecase.MutationRemove, lineID, lines)
	srv.mu.Unlock()
	srv.report(m)

	err := srv.api.RemoveCartItem(ctx, lineID)

	return srv.settle(ctx, gen, m, snapshot, err)
}

func (srv *cartService) Clear(ctx context.Context) error {
	gen, ok := srv.established()
	if !ok {
		return nil
	}

	srv.mu.Lock()
	if srv.cart.Empty() {
		srv.mu.Unlock()

		return nil
	}
	m, snapshot := srv.pendingLocked(usecase.MutationClear, "", []entity.CartLine{})
	srv.mu.Unlock()
	srv.report(m)

	err := srv.api.ClearCart(ctx)

	return srv.settle(ctx, gen, m, snapshot, err)
}

func (srv *cartService) PlaceOrder(ctx context.Context, specialInstructions string) (*entity.Order, error) {
	state := srv.session.State()
	if !state.Established() {
		return nil, nil
	}

	srv.mu.Lock()
	empty := srv.cart.Empty()
	srv.mu.Unlock()
	if empty {
		return nil, errors.WithStack(domainerrors.ErrEmptyCart)
	}

	order, err := srv.api.PlaceOrder(ctx, strings.TrimSpace(specialInstructions))
	if err != nil {
		return nil, err
	}

	if err := srv.Refresh(ctx); err != nil {
		srv.log(ctx).Warn("Failed to refresh cart after order", slog.Any("error", err))
	}

	srv.log(ctx).Info("Order placed", slog.String("order_id", order.ID))
	srv.events.emit(ctx, service.SessionEvent{
		Type:       service.SessionEventOrderPlaced,
		CustomerID: customerID(state.Customer),
		TableID:    tableID(state.Table),
		OrderID:    order.ID,
	})

	return order, nil
}
