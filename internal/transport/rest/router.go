package rest

import (
	"net/http"

	"lowbid/internal/service"
	"lowbid/internal/transport/rest/handler"
	"lowbid/internal/transport/rest/middleware"
	"lowbid/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	RoomService    *service.RoomService
	ArchiveService *service.ArchiveService
	WSHub          *ws.Hub

	// AllowedOrigins is sent as Access-Control-Allow-Origin; empty means "*"
	AllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	roomHandler := handler.NewRoomHandler(c.RoomService)
	resultHandler := handler.NewResultHandler(c.ArchiveService)
	wsHandler := ws.NewHandler(c.WSHub, c.RoomService, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket (connection id and token are issued in the welcome frame)
	v1.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	// Public routes
	v1.HandleFunc("/rooms", roomHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/results", resultHandler.Results).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/standings", resultHandler.Standings).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", resultHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/docs/swagger.json", serveDocs).Methods("GET")

	// Connection routes (require the token from the welcome frame)
	connRoutes := v1.NewRoute().Subrouter()
	connRoutes.Use(authMW.RequireConnection)

	connRoutes.HandleFunc("/rooms/{code}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	connRoutes.HandleFunc("/rooms/{code}/resolve", roomHandler.Resolve).Methods("POST", "OPTIONS")

	return r
}

func serveDocs(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"api docs not registered"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
