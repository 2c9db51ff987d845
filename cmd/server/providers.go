package main

import (
	"context"
	"fmt"

	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/docstore"
	"campus_identity_backend/internal/firebase"
	"campus_identity_backend/internal/platform/database"

	"firebase.google.com/go/v4/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// provideFirebaseApp initializes the Admin SDK once for the whole process.
func provideFirebaseApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*firebase.App, func(), error) {
	app, err := firebase.NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = app.Close()
	}
	return app, cleanup, nil
}

func provideAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	return app.Auth(ctx)
}

// provideDocumentStore selects the document store backend from config.
func provideDocumentStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (docstore.Store, func(), error) {
	switch cfg.DocumentStoreBackend {
	case config.BackendFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		// The firebase App owns the Firestore client and closes it.
		return docstore.NewFirestoreStore(client, logger), func() {}, nil
	case config.BackendPostgres, config.BackendSQLite:
		db, err := database.NewGORM(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		store, err := docstore.NewGormStore(db, logger)
		if err != nil {
			database.CloseGORMDB(db, logger)
			return nil, nil, err
		}
		return store, func() { database.CloseGORMDB(db, logger) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown document store backend %q", cfg.DocumentStoreBackend)
	}
}

// provideRegistry returns a registry carrying the Go runtime and process collectors.
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
