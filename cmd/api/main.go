package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"uno-server/internal/server"
)

func gracefulShutdown(srv *server.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutdown signal received")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	done <- true
}

func main() {
	srv := server.NewServer()

	done := make(chan bool, 1)
	go gracefulShutdown(srv, done)

	if err := srv.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
