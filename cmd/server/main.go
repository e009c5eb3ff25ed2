// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/suitduel/server/internal/auth"
	"github.com/suitduel/server/internal/cache"
	"github.com/suitduel/server/internal/handlers"
	"github.com/suitduel/server/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// The historian feed is optional; the server runs fine without Redis.
	if os.Getenv("REDIS_ADDR") != "" {
		if err := cache.ConnectRedis(); err != nil {
			logger.Warnf("Redis unavailable, match history feed disabled: %v", err)
			cache.Rdb = nil
		}
	}

	srv := handlers.NewServer()
	if ms := os.Getenv("REVEAL_DELAY_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			srv.Registry.RevealDelay = time.Duration(v) * time.Millisecond
		}
	}

	mux := http.NewServeMux()

	// duel websocket
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))

	// discovery index snapshot + liveness
	mux.Handle("/rooms", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))
	mux.HandleFunc("/healthz", handlers.HealthzHandler)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
