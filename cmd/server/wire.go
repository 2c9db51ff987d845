// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"campus_identity_backend/internal/account"
	"campus_identity_backend/internal/app"
	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/directory"
	"campus_identity_backend/internal/jobs"
	"campus_identity_backend/internal/metrics"
	"campus_identity_backend/internal/platform/logger"
	"campus_identity_backend/internal/student"
	"campus_identity_backend/internal/user"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

var platformSet = wire.NewSet(
	logger.New,
	provideFirebaseApp,
	provideAuthClient,
	provideDocumentStore,
	directory.NewFirebaseDirectory,
	wire.Bind(new(directory.Directory), new(*directory.FirebaseDirectory)),
)

var metricsSet = wire.NewSet(
	provideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	metrics.NewCollector,
	wire.Bind(new(metrics.Recorder), new(*metrics.Collector)),
)

// initializeServer is the main Wire injector.
func initializeServer(ctx context.Context, cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		metricsSet,

		account.NewService,
		account.NewHandler,
		student.NewService,
		student.NewHandler,
		user.NewDocumentRepository,
		user.NewService,
		user.NewHandler,
		jobs.NewStudentOrphanSweepJob,

		app.NewServer,
	)
	return nil, nil, nil
}

// initializeOrphanSweep builds only what the one-shot sweep command needs.
func initializeOrphanSweep(ctx context.Context, cfg *config.Config) (*jobs.StudentOrphanSweepJob, func(), error) {
	wire.Build(
		platformSet,
		metricsSet,
		jobs.NewStudentOrphanSweepJob,
	)
	return nil, nil, nil
}
