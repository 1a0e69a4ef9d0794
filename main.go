// Package main our entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/johndosdos/chatrelay/internal/config"
	"github.com/johndosdos/chatrelay/internal/handler"
	"github.com/johndosdos/chatrelay/internal/room"
	ws "github.com/johndosdos/chatrelay/internal/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// No ReadTimeout/WriteTimeout here: they would apply to hijacked
	// websocket connections and kill idle chats.
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	// hub.Run is our central hub that is always listening for client
	// related events.
	hub := ws.NewHub(room.New())
	go hub.Run(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", handler.ServeWs(hub, cfg))
	r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	server.Handler = r

	go func() {
		log.Printf("Server starting at 0.0.0.0:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutdown signal received; shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println(err)
	}

	log.Println("Server stopped")
}
