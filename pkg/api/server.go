package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cbodonnell/instalose/pkg/api/handlers"
	"github.com/cbodonnell/instalose/pkg/api/middleware"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/network"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port              int
	TLS               *TLSConfig
	Games             handlers.Games
	ConnectionManager *network.ConnectionManager
	// AllowedOrigins are the origins allowed to call the API; "*" allows any
	AllowedOrigins []string
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewHandler(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewHandler routes the game API and the push endpoint.
func NewHandler(opts NewAPIServerOptions) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", handlers.HandleHealth()).Methods(http.MethodGet)
	r.HandleFunc("/games", handlers.HandleCreateGame(opts.Games)).Methods(http.MethodPost)
	r.HandleFunc("/games/{gameID}", handlers.HandleGetState(opts.Games)).Methods(http.MethodGet)
	r.HandleFunc("/games/{gameID}/players", handlers.HandleJoinGame(opts.Games)).Methods(http.MethodPost)
	r.HandleFunc("/games/{gameID}/start", handlers.HandleStartGame(opts.Games)).Methods(http.MethodPost)
	r.HandleFunc("/games/{gameID}/actions", handlers.HandleTakeAction(opts.Games)).Methods(http.MethodPost)
	if opts.ConnectionManager != nil {
		r.HandleFunc("/games/{gameID}/ws", network.NewWSHandler(network.NewWSHandlerOptions{
			ConnectionManager: opts.ConnectionManager,
			OriginPatterns:    originPatterns(opts.AllowedOrigins),
		})).Methods(http.MethodGet)
	}

	// preflight requests never match a route, so CORS wraps the router
	cors := middleware.NewCORSMiddleware(opts.AllowedOrigins)
	logging := middleware.NewLoggingMiddleware()
	return logging(cors(r))
}

// originPatterns turns allowed origins into the host patterns the websocket
// handshake checks.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			patterns = append(patterns, origin)
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			log.Warn("Ignoring invalid allowed origin %q", origin)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
