// Package main starts the chat presence and relay server and handles
// termination.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vivek-26-12/ChatWebscoket/internal/server"
	"github.com/Vivek-26-12/ChatWebscoket/internal/telemetry"
)

const (
	serviceName     = "chat-server"
	shutdownTimeout = 10 * time.Second
)

func main() {
	log.SetPrefix("[CHAT] ")

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	}

	hub := server.NewHub(cfg)
	go hub.Run()
	log.Println("Hub started and ready to manage WebSocket connections")

	httpServer := server.CreateServer(cfg.Addr(), server.SetupRoutes(hub))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.StartServer(httpServer)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	}

	if err := server.ShutdownServer(httpServer, shutdownTimeout); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		log.Printf("Hub shutdown: %v", err)
	}
	if err := shutdownTracing(context.Background()); err != nil {
		log.Printf("Tracing shutdown: %v", err)
	}
}
