// Package server exposes a loaded taxonomy over HTTP, a WebSocket event
// stream, and MCP stdio.
package server

import (
	"context"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/patrickkwang/bmt-lite/config"
	"github.com/patrickkwang/bmt-lite/logger"
	"github.com/patrickkwang/bmt-lite/taxonomy"
)

// Server answers taxonomy queries over HTTP and streams model lifecycle
// events to WebSocket clients. The toolkit is replaced wholesale on
// model reload; requests in flight keep the index they started with.
type Server struct {
	mux *http.ServeMux

	// Current model, swapped by SwapModel
	modelMu     sync.RWMutex
	toolkit     *taxonomy.Toolkit
	fingerprint string
	modelPath   string

	cfgMu sync.RWMutex
	cfg   *config.Config

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	mu         sync.RWMutex // protects clients

	modelWatcher  *ModelWatcher
	configWatcher *config.ConfigWatcher

	httpServer *http.Server

	logger *zap.SugaredLogger

	// Lifecycle management
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	broadcastDrops atomic.Int64
	state          atomic.Int32
}

// Options configures a Server.
type Options struct {
	Config      *config.Config
	Toolkit     *taxonomy.Toolkit
	Fingerprint string

	// ModelPath enables the model file watcher when server.watch is set
	ModelPath string
}

// New creates a server around a loaded toolkit.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		mux:         http.NewServeMux(),
		toolkit:     opts.Toolkit,
		fingerprint: opts.Fingerprint,
		modelPath:   opts.ModelPath,
		cfg:         cfg,
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Event, broadcastBufferSize),
		logger:      logger.Logger,
		ctx:         ctx,
		cancel:      cancel,
	}

	s.setupRoutes()

	if cfg.Server.Watch && opts.ModelPath != "" {
		watcher, err := newModelWatcher(s, opts.ModelPath)
		if err != nil {
			cancel()
			return nil, err
		}
		s.modelWatcher = watcher
	}

	s.setupConfigWatcher()

	return s, nil
}

// setupConfigWatcher reloads runtime settings when the config file
// changes. No config file on disk means no watching.
func (s *Server) setupConfigWatcher() {
	configPath := config.GetViper().ConfigFileUsed()
	if configPath == "" {
		// The merge cascade records no single file; fall back to the
		// user config when it exists on disk
		if user := config.UserConfigPath(); user != "" {
			if _, err := os.Stat(user); err == nil {
				configPath = user
			}
		}
	}
	if configPath == "" {
		s.logger.Debugw("No config file in use, config watching disabled")
		return
	}

	watcher, err := config.NewConfigWatcher(configPath)
	if err != nil {
		s.logger.Warnw("Failed to create config watcher, restart required for config changes",
			"error", err)
		return
	}

	s.configWatcher = watcher
	config.SetGlobalWatcher(watcher)

	watcher.OnReload(func(newCfg *config.Config) error {
		s.cfgMu.Lock()
		s.cfg = newCfg
		s.cfgMu.Unlock()
		s.logger.Infow("Config reloaded",
			"allowed_origins", newCfg.GetAllowedOrigins())
		return nil
	})

	watcher.Start()
	s.logger.Infow("Config watcher started", "path", configPath)
}

// Toolkit returns the currently loaded toolkit.
func (s *Server) Toolkit() *taxonomy.Toolkit {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.toolkit
}

// Fingerprint returns the fingerprint of the currently loaded model.
func (s *Server) Fingerprint() string {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.fingerprint
}

// SwapModel replaces the served toolkit and announces the new model to
// connected clients.
func (s *Server) SwapModel(tk *taxonomy.Toolkit, fingerprint string) {
	s.modelMu.Lock()
	s.toolkit = tk
	s.fingerprint = fingerprint
	s.modelMu.Unlock()

	s.logger.Infow("Model swapped",
		"fingerprint", fingerprint,
		"elements", tk.Len(),
	)

	s.broadcastEvent(newModelReloadedEvent(fingerprint, tk.Len()))
}

// currentConfig returns the live config snapshot.
func (s *Server) currentConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// clientCount returns the number of connected WebSocket clients.
func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Run drives the hub event loop. It is the single goroutine that closes
// client send channels, so register, unregister, and broadcast never
// race on them.
func (s *Server) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		case ev := <-s.broadcast:
			s.handleBroadcast(ev)
		}
	}
}

// handleClientRegister admits a new client connection
func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			"client_id", client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}
	s.clients[client] = true
	totalClients := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		"client_id", client.id,
		"total_clients", totalClients,
	)

	// Greet the new client with the current model so it need not wait
	// for the next reload
	client.enqueue(newConnectedEvent(s.Fingerprint(), s.Toolkit().Len()))
}

// handleClientUnregister removes a disconnected client
func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, client)
	totalClients := len(s.clients)
	s.mu.Unlock()

	client.close()

	s.logger.Infow("Client disconnected",
		"client_id", client.id,
		"total_clients", totalClients,
	)
}

// handleBroadcast fans an event out to every connected client. Clients
// with full send queues are evicted.
func (s *Server) handleBroadcast(ev *Event) {
	s.mu.RLock()
	targets := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		targets = append(targets, client)
	}
	s.mu.RUnlock()

	for _, client := range targets {
		if client.enqueue(ev) {
			continue
		}
		s.broadcastDrops.Add(1)
		s.removeSlowClient(client)
	}
}

// removeSlowClient drops a client that cannot keep up with broadcasts.
// Only called from the hub goroutine, so closing directly is safe.
func (s *Server) removeSlowClient(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, client)
	s.mu.Unlock()

	client.close()

	s.logger.Warnw("Client send queue full, removing client",
		"client_id", client.id,
		"total_drops", s.broadcastDrops.Load(),
	)
}

// broadcastEvent queues an event for all clients without blocking the
// caller.
func (s *Server) broadcastEvent(ev *Event) {
	select {
	case s.broadcast <- ev:
	case <-s.ctx.Done():
	default:
		s.broadcastDrops.Add(1)
		s.logger.Warnw("Broadcast queue full, dropping event", "type", ev.Type)
	}
}

// Handler returns the HTTP handler tree, for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}
