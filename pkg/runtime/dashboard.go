// lootfilter/pkg/runtime/dashboard.go

package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"rgehrsitz/lootfilter/pkg/logging"
)

// StatsSource is what the dashboard reports on.
type StatsSource interface {
	GetStats() Stats
}

type Dashboard struct {
	engine         StatsSource
	port           int
	clients        map[*websocket.Conn]bool
	clientsMutex   sync.Mutex
	updateInterval time.Duration
	metrics        *metrics
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewDashboard(engine StatsSource, port int, updateInterval time.Duration) *Dashboard {
	d := &Dashboard{
		engine:         engine,
		port:           port,
		clients:        make(map[*websocket.Conn]bool),
		updateInterval: updateInterval,
	}
	d.metrics = newMetrics(engine, d.clientCount)
	return d
}

// Handler exposes /health, /api/stats, Prometheus /metrics and the /events
// websocket.
func (d *Dashboard) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, d.metrics.middleware)

	r.Get("/health", d.handleHealth)
	r.Get("/api/stats", d.handleStats)
	r.Get("/events", d.handleWebSocket)
	r.Handle("/metrics", d.metrics.handler())
	return r
}

// Start serves the dashboard and pushes stats to websocket clients until ctx is
// cancelled.
func (d *Dashboard) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.port),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go d.broadcastUpdates(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.Logger.Info().Int("port", d.port).Msg("Dashboard starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("dashboard server: %w", err)
	}
	return nil
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Server is running")
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(d.engine.GetStats())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger.Error().Err(err).Msg("Error upgrading to WebSocket")
		return
	}
	defer conn.Close()

	logging.Logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Client connected")

	d.clientsMutex.Lock()
	d.clients[conn] = true
	d.clientsMutex.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	d.clientsMutex.Lock()
	delete(d.clients, conn)
	d.clientsMutex.Unlock()

	logging.Logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Client disconnected")
}

func (d *Dashboard) clientCount() int {
	d.clientsMutex.Lock()
	defer d.clientsMutex.Unlock()
	return len(d.clients)
}

func (d *Dashboard) broadcastUpdates(ctx context.Context) {
	ticker := time.NewTicker(d.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.broadcast()
		}
	}
}

func (d *Dashboard) broadcast() {
	message, err := json.Marshal(d.engine.GetStats())
	if err != nil {
		logging.Logger.Error().Err(err).Msg("Error marshaling stats")
		return
	}

	d.clientsMutex.Lock()
	defer d.clientsMutex.Unlock()
	for client := range d.clients {
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			logging.Logger.Debug().Err(err).Msg("Error sending message to client")
			client.Close()
			delete(d.clients, client)
		}
	}
}
