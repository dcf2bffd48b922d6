package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gatherly/gatherly/internal/database"
	"github.com/gatherly/gatherly/internal/lifecycle"
	"github.com/gatherly/gatherly/internal/logging"
	"github.com/gatherly/gatherly/internal/server"
)

func main() {
	godotenv.Load()

	port := os.Getenv("GATHERLY_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("GATHERLY_DB_PATH")
	if dbPath == "" {
		dbPath = "gatherly.db"
	}

	logger := logging.Setup(os.Getenv("GATHERLY_LOG_LEVEL"), os.Getenv("GATHERLY_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, logger)

	sweeper := lifecycle.NewScheduler(srv.LifecycleManager(), 24*time.Hour)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Hourly cleanup for expired sessions and stale rate-limit buckets.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()
	defer close(cleanupDone)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Gatherly running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
