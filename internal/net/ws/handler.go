package ws

import (
	"errors"
	"log"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"go-tower-director/internal/app"
	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/progression"
)

type HandlerConfig struct {
	Logger *log.Logger
	// Catalog returns the catalog new sessions start from. It is called once
	// per connection, so a hot-reloaded catalog reaches new sessions only.
	Catalog     func() *defs.Catalog
	Progression *progression.Manager
	TickRate    int
}

// Handler upgrades /ws/{client_id} requests and runs one game per connection.
type Handler struct {
	catalog     func() *defs.Catalog
	progression *progression.Manager
	logger      *log.Logger
	tick        time.Duration
	upgrader    websocket.Upgrader
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	rate := cfg.TickRate
	if rate <= 0 {
		rate = config.TickRate
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		catalog:     cfg.Catalog,
		progression: cfg.Progression,
		logger:      logger,
		tick:        time.Second / time.Duration(rate),
		upgrader:    upgrader,
	}
}

// Routes returns a mux serving the websocket endpoint.
func (h *Handler) Routes() *nethttp.ServeMux {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /ws/{client_id}", h.Handle)
	return mux
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	clientID := r.PathValue("client_id")
	if clientID == "" {
		nethttp.Error(w, "missing client id", nethttp.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	format, err := ParseFormat(q.Get("format"))
	if err != nil {
		nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
		return
	}
	seed := time.Now().UnixNano()
	if s := q.Get("seed"); s != "" {
		if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			nethttp.Error(w, "bad seed", nethttp.StatusBadRequest)
			return
		}
	}
	var cat *defs.Catalog
	if h.catalog != nil {
		cat = h.catalog()
	}
	if cat == nil {
		nethttp.Error(w, "catalog not loaded", nethttp.StatusServiceUnavailable)
		return
	}

	game, err := app.New(cat, app.Options{
		Seed:        seed,
		Difficulty:  q.Get("difficulty"),
		LevelStyle:  q.Get("level"),
		Progression: h.progression,
	})
	if err != nil {
		h.logger.Printf("failed to start game for %s: %v", clientID, err)
		nethttp.Error(w, "failed to start game", nethttp.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", clientID, err)
		return
	}
	h.logger.Printf("client %s connected (format %s, seed %d)", clientID, format, seed)

	s := newSession(clientID, conn, game, format, h.tick, h.logger)
	err = s.run(r.Context())
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway), errors.Is(err, errSessionEnded):
		h.logger.Printf("client %s disconnected", clientID)
	default:
		h.logger.Printf("client %s dropped: %v", clientID, err)
	}
}
