// Package firebase owns the Firebase Admin SDK app and the clients built from it.
package firebase

import (
	"context"
	"fmt"
	"path/filepath" // For cleaning the path
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"campus_identity_backend/internal/config"
)

// App wraps the Admin SDK app. Clients are built lazily, at most once each.
type App struct {
	app    *firebase.App
	logger *zap.Logger

	authOnce   sync.Once
	authClient *auth.Client
	authErr    error

	firestoreOnce   sync.Once
	firestoreClient *firestore.Client
	firestoreErr    error
}

// NewApp initializes the Firebase Admin SDK. A service account key file is
// used when configured; otherwise Application Default Credentials apply.
// Emulator environment variables are honoured by the SDK itself.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	var opts []option.ClientOption
	if cfg.FirebaseServiceAccountKeyPath != "" {
		// Note: the path comes from config, never from a request.
		cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
		opts = append(opts, option.WithCredentialsFile(cleanPath))
	}

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.",
		zap.String("projectID", cfg.FirebaseProjectID),
		zap.Bool("keyFile", cfg.FirebaseServiceAccountKeyPath != ""))
	return &App{app: app, logger: logger}, nil
}

// Auth returns the Firebase Auth client, creating it on first use.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	a.authOnce.Do(func() {
		a.authClient, a.authErr = a.app.Auth(ctx)
		if a.authErr != nil {
			a.logger.Error("Failed to get Firebase Auth client", zap.Error(a.authErr))
			a.authErr = fmt.Errorf("error getting Firebase Auth client: %w", a.authErr)
		}
	})
	return a.authClient, a.authErr
}

// Firestore returns the Firestore client, creating it on first use.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	a.firestoreOnce.Do(func() {
		a.firestoreClient, a.firestoreErr = a.app.Firestore(ctx)
		if a.firestoreErr != nil {
			a.logger.Error("Failed to get Firestore client", zap.Error(a.firestoreErr))
			a.firestoreErr = fmt.Errorf("error getting Firestore client: %w", a.firestoreErr)
		}
	})
	return a.firestoreClient, a.firestoreErr
}

// Close releases the Firestore client if one was created.
func (a *App) Close() error {
	if a.firestoreClient == nil {
		return nil
	}
	if err := a.firestoreClient.Close(); err != nil {
		a.logger.Error("Error closing Firestore client", zap.Error(err))
		return err
	}
	a.logger.Info("Firestore client closed.")
	return nil
}
