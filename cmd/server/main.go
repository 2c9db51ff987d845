// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus_identity_backend/internal/config"
)

func main() {
	// Define CLI flags
	sweepCmd := flag.NewFlagSet("sweep-student-orphans", flag.ExitOnError)
	sweepTimeout := sweepCmd.Duration("timeout", 10*time.Minute, "Maximum duration of the sweep")

	if len(os.Args) > 1 && os.Args[1] == "sweep-student-orphans" {
		if err := sweepCmd.Parse(os.Args[2:]); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		if err := runOrphanSweep(*sweepTimeout); err != nil {
			log.Fatalf("FATAL: Student orphan sweep failed: %v", err)
		}
		return
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runOrphanSweep performs one student orphan sweep.
func runOrphanSweep(timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	job, cleanup, err := initializeOrphanSweep(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize sweep: %w", err)
	}
	defer cleanup()

	deleted, err := job.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("after deleting %d documents: %w", deleted, err)
	}
	log.Printf("INFO: Student orphan sweep deleted %d documents.", deleted)
	return nil
}
