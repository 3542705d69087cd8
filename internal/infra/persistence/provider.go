// Package persistence selects the configured client state backend.
package persistence

import (
	"log/slog"

	"dinein/config"
	"dinein/internal/domain/constants"
	"dinein/internal/domain/repository"
	"dinein/internal/errors"
	"dinein/internal/infra/persistence/blobstore"
	"dinein/internal/infra/persistence/sqlite"

	"go.uber.org/fx"
)

// Params holds dependencies for the state store, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewStateStore opens the StateStore named by storage.driver.
func NewStateStore(params Params) (repository.StateStore, error) {
	switch params.Config.Storage.Driver {
	case constants.StorageDriverSQLite:
		db, err := sqlite.New(sqlite.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return sqlite.NewStateStore(db), nil

	case constants.StorageDriverBlob, "":
		return blobstore.New(blobstore.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})

	default:
		return nil, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}

// Module provides the persistence FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewStateStore),
)
