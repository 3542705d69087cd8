package main

import (
	"context"
	"log/slog"
	"os"

	"dinein/config"
	"dinein/internal/delivery"
	"dinein/internal/delivery/http"
	"dinein/internal/delivery/http/router/handler"
	"dinein/internal/domain/service"
	"dinein/internal/infra/auth"
	"dinein/internal/infra/backend"
	logs "dinein/internal/infra/log"
	"dinein/internal/infra/persistence"
	"dinein/internal/infra/pubsub"
	"dinein/internal/infra/qrcode"
	"dinein/internal/usecase"
	"dinein/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type restoreSessionParams struct {
	fx.In
	fx.Lifecycle

	Session usecase.SessionUsecase
	// requested so the cart is subscribed before the session is restored
	Cart   usecase.CartUsecase
	Logger *slog.Logger
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			restoreSession,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		persistence.Module,
		pubsub.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewCredentialHolder,
			credentialSource,
			auth.NewJWTInspector,
			service.NewSystemClock,
			backend.NewCustomerAPI,
			newQRCodeService,
		),
	)
}

// credentialSource hands the request layer the read side of the one holder.
func credentialSource(store service.CredentialStore) service.CredentialSource {
	return store
}

func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			impl.NewCartService,
			impl.NewTableService,
			impl.NewMenuService,
			impl.NewOrderService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSessionHandler,
			handler.NewTableHandler,
			handler.NewMenuHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewHealthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// restoreSession reloads a persisted credential once the stores are wired.
func restoreSession(params restoreSessionParams) {
	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Session.Restore(ctx); err != nil {
				params.Logger.Warn("Failed to restore session", slog.Any("error", err))
			}

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
