package server

import (
	"net/http"
)

// setupRoutes configures all HTTP handlers on the server's own mux
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.corsMiddleware(s.handleHealth))
	s.mux.HandleFunc("/api/elements/", s.corsMiddleware(s.handleElement))  // Element document and facets (GET)
	s.mux.HandleFunc("/api/mappings/", s.corsMiddleware(s.handleMapping))  // Identifier matches and resolution (GET)
	s.mux.HandleFunc("/api/query", s.corsMiddleware(s.handleQuery))        // Generic query endpoint (POST)
	s.mux.HandleFunc("/ws", s.corsMiddleware(s.handleWebSocket))           // Model lifecycle event stream
}

// corsMiddleware adds CORS headers using the configured allowed origins.
// The same origin validation gates WebSocket upgrades.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
