package main

import (
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/meetlink/signal-service/pkg/auth"
	"github.com/meetlink/signal-service/pkg/ice"
	httpdelivery "github.com/meetlink/signal-service/pkg/room/application/delivery/http"
	wsdelivery "github.com/meetlink/signal-service/pkg/room/application/delivery/ws"
	"github.com/meetlink/signal-service/pkg/room/application/roommanager"
	"github.com/meetlink/signal-service/pkg/room/infrastructure/repository/inmemory"
	"github.com/meetlink/signal-service/pkg/shortlink"
	"github.com/meetlink/signal-service/pkg/token"
)

func main() {
	addr := envDefault("ADDR", ":8080")

	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		log.Fatal("TOKEN_SECRET is required")
	}
	authPassword := os.Getenv("AUTH_PASSWORD")
	if authPassword == "" {
		log.Fatal("AUTH_PASSWORD is required")
	}

	roomTTL := envDuration("ROOM_TOKEN_TTL", time.Hour)
	sweepEvery := envDuration("LINK_SWEEP_INTERVAL", 30*time.Second)
	sessionTTL := envDuration("SESSION_TTL", 12*time.Hour)

	iceVendor, err := ice.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	// The sweeper runs for the life of the process; there is no shutdown
	// path other than the process exiting.
	links := shortlink.NewStore(sweepEvery)
	links.Start()

	tokens := token.NewIssuer(tokenSecret)
	roomRepo := inmemory.NewInMemoryRoomRepository(&sync.Map{})
	roomManager := roommanager.NewDefaultRoomManager(roomRepo, tokens)

	authService := auth.NewService(
		envDefault("SESSION_SECRET", tokenSecret),
		auth.Credentials{
			Username: envDefault("AUTH_USERNAME", "admin"),
			Password: authPassword,
		},
		sessionTTL,
	)

	roomHandler := httpdelivery.NewRoomHandler(tokens, links, iceVendor, roomTTL)
	signalingHandler := wsdelivery.NewSignalingHandler(roomManager)

	router := mux.NewRouter()
	router.HandleFunc("/api/login", authService.LoginHandler).Methods("POST")
	router.HandleFunc("/api/logout", authService.LogoutHandler).Methods("POST")
	router.Handle("/api/rooms", authService.Middleware(http.HandlerFunc(roomHandler.CreateRoomHandler))).Methods("POST")
	router.HandleFunc("/api/ice-servers", roomHandler.IceServersHandler).Methods("GET")
	router.HandleFunc("/s/{code}", roomHandler.ResolveLinkHandler).Methods("GET")
	router.Handle("/ws", signalingHandler)
	router.HandleFunc("/health", httpdelivery.HealthHandler).Methods("GET")

	log.Printf("INFO: starting signaling server at %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("WARN: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
