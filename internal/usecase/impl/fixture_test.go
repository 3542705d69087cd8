package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dinein/config"
	"dinein/internal/domain/entity"
	"dinein/internal/domain/repository"
	"dinein/internal/domain/service"
	"dinein/internal/infra/auth"
	"dinein/internal/infra/backend"
	"dinein/internal/infra/backend/backendtest"
	"dinein/internal/infra/persistence/blobstore"
	"dinein/internal/infra/qrcode"
	"dinein/internal/usecase"

	"github.com/stretchr/testify/require"
)

const testPhone = "+919876543210"

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.SessionEvent
}

func (p *recordingPublisher) PublishSessionEvent(_ context.Context, event *service.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)

	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(eventType service.SessionEventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, event := range p.events {
		if event.Type == eventType {
			n++
		}
	}

	return n
}

type fixture struct {
	backend     *backendtest.Server
	credentials service.CredentialStore
	state       repository.StateStore
	events      *recordingPublisher
	api         service.CustomerAPI
	session     usecase.SessionUsecase
	cart        usecase.CartUsecase
	table       usecase.TableUsecase
	menu        usecase.MenuUsecase
	orders      usecase.OrderUsecase
}

func newFixture(t *testing.T, configure ...func(*config.Config)) *fixture {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := backendtest.New(t)

	cfg := &config.Config{}
	cfg.Backend = &config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}
	cfg.Auth = &config.AuthConfig{DefaultCountryCode: "+91", OTPResendSeconds: 3, OTPLength: 6}
	for _, fn := range configure {
		fn(cfg)
	}
	cfg.ApplyDefaults()

	state, err := blobstore.Open(ctx, "mem://", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })

	clock := fixedClock{now: time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)}
	credentials := auth.NewCredentialHolder()
	events := &recordingPublisher{}

	api := backend.NewCustomerAPI(backend.Params{
		Config:      cfg,
		Logger:      logger,
		Credentials: credentials,
		Inspector:   auth.NewJWTInspector(),
		Clock:       clock,
	})

	session := NewSessionService(SessionServiceParams{
		API:         api,
		Credentials: credentials,
		State:       state,
		Publisher:   events,
		Clock:       clock,
		Config:      cfg,
		Logger:      logger,
	})
	cart := NewCartService(CartServiceParams{
		API:       api,
		Session:   session,
		Publisher: events,
		Clock:     clock,
		Logger:    logger,
	})

	return &fixture{
		backend:     srv,
		credentials: credentials,
		state:       state,
		events:      events,
		api:         api,
		session:     session,
		cart:        cart,
		table: NewTableService(TableServiceParams{
			Session: session,
			Cart:    cart,
			State:   state,
			QRCode:  qrcode.NewQRCodeService(256, "M", "http://localhost:3000"),
			Logger:  logger,
		}),
		menu:   NewMenuService(MenuServiceParams{API: api, Session: session, Logger: logger}),
		orders: NewOrderService(api, session),
	}
}

func (f *fixture) login(t *testing.T) entity.SessionState {
	t.Helper()

	ctx := context.Background()
	_, err := f.session.RequestCode(ctx, testPhone)
	require.NoError(t, err)
	state, err := f.session.VerifyCode(ctx, backendtest.DefaultOTP)
	require.NoError(t, err)
	require.True(t, state.Established())

	return state
}

func (f *fixture) stored(t *testing.T, key string) (string, bool) {
	t.Helper()

	value, err := f.state.Get(context.Background(), key)
	if err != nil {
		require.ErrorIs(t, err, repository.ErrStateNotFound)

		return "", false
	}

	return value, true
}

// product returns a menu product by id.
func (f *fixture) product(t *testing.T, id string) entity.Product {
	t.Helper()

	product, err := f.menu.Product(context.Background(), id)
	require.NoError(t, err)

	return *product
}

func (f *fixture) addInput(t *testing.T, productID string, quantity int) usecase.AddItemInput {
	t.Helper()

	return usecase.AddItemInput{Product: f.product(t, productID), Quantity: quantity}
}
