// Package sqlite keeps client state in a local SQLite file through GORM.
package sqlite

import (
	"context"
	"log/slog"

	"dinein/config"
	"dinein/internal/domain/lifecycle"
	"dinein/internal/errors"
	"dinein/internal/infra/persistence/model"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the SQLite database at storage.sqlitePath and migrates the state table.
func New(params Params) (*gorm.DB, error) {
	path := params.Config.Storage.SQLitePath

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open SQLite database %q", path)
	}

	if err := db.AutoMigrate(&model.StateEntryModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate client state table")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}
	// one writer; the file is only touched by this process
	sqlDB.SetMaxOpenConns(1)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping SQLite")
			}

			params.Logger.Info("State store opened", slog.String("driver", "sqlite"), slog.String("path", path))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}
