// Round-robin tic-tac-toe
//
// Players are added to a shared roster, and every pair of players meets in
// turn. The first player of each pairing plays X. Wins are tallied on a
// leaderboard that follows players through renames and forgets them when
// they are removed.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Every connected browser sees the same roster, board and leaderboard
// - All actions for a game are applied one at a time by that game's hub
// - Validation failures are sent only to the offending client
// - JSON endpoints per game: state, add_player, delete_player, record_winner
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current game, backed by go-qrcode

package main

import (
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/tictactoe/internal/arena"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var errGameClosed = errors.New("game has ended")

// Messages coming from clients
type ClientMessage struct {
	Type  string `json:"type"`            // "add_player", "rename_player", "delete_player", "start", "play", "reset", "next_match"
	Name  string `json:"name,omitempty"`  // add_player / rename_player
	Index int    `json:"index,omitempty"` // rename_player / delete_player
	Row   int    `json:"row,omitempty"`   // play
	Col   int    `json:"col,omitempty"`   // play
}

// StateMessage carries the full game state to every client after a change.
type StateMessage struct {
	Type string `json:"type"` // "state"
	arena.Snapshot
}

// SimpleMessage is for generic notifications ("notice").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type result struct {
	snapshot arena.Snapshot
	err      error
}

// request is a single action against a game's arena. Requests from the
// JSON API have no client and wait on reply.
type request struct {
	client   *Client
	apply    func(*arena.Arena) error
	readOnly bool
	reply    chan result
}

type Hub struct {
	id      string
	cfg     *Config
	metrics *metrics
	arena   *arena.Arena
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	requests chan request
	done     chan struct{}
	closing  sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub(cfg *Config, m *metrics, gameID string) *Hub {
	now := time.Now()
	h := &Hub{
		id:         gameID,
		cfg:        cfg,
		metrics:    m,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		requests:   make(chan request),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
	h.arena = arena.New(
		arena.WithObserver(h),
		arena.WithMaxPlayers(cfg.maxPlayers),
	)

	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.sendLocked(c, h.stateMessage())
			h.mu.Unlock()

			logf(h.cfg, "GAMES: Client %s connected to %s", c.playerID, h.id)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case req := <-h.requests:
			h.handle(req)
		}
	}
}

// handle applies one request to completion, then tells clients about it.
func (h *Hub) handle(req request) {
	err := req.apply(h.arena)

	h.mu.Lock()
	h.lastActive = time.Now()

	var verr *arena.ValidationError
	switch {
	case errors.As(err, &verr):
		if req.client != nil {
			h.sendLocked(req.client, SimpleMessage{
				Type:    "notice",
				Message: noticeText(verr),
			})
		}
	case err == nil && !req.readOnly:
		h.broadcastLocked(h.stateMessage())
	}
	h.mu.Unlock()

	if req.reply != nil {
		req.reply <- result{snapshot: h.arena.Snapshot(), err: err}
	}
}

func noticeText(err *arena.ValidationError) string {
	switch {
	case errors.Is(err, arena.ErrNeedPlayers):
		return "Need 2 valid players to start the game!"
	case errors.Is(err, arena.ErrEmptyName):
		return "Player names cannot be blank."
	case errors.Is(err, arena.ErrTooManyPlayers):
		return "The roster is full."
	default:
		return "That player no longer exists."
	}
}

func (h *Hub) stateMessage() StateMessage {
	return StateMessage{
		Type:     "state",
		Snapshot: h.arena.Snapshot(),
	}
}

// sendLocked assumes h.mu is already held.
func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcastLocked assumes h.mu is already held.
func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

// submit queues apply on the hub and waits for the snapshot taken after it.
func (h *Hub) submit(apply func(*arena.Arena) error, readOnly bool) (arena.Snapshot, error) {
	select {
	case <-h.done:
		return arena.Snapshot{}, errGameClosed
	default:
	}

	reply := make(chan result, 1)

	select {
	case h.requests <- request{apply: apply, readOnly: readOnly, reply: reply}:
	case <-h.done:
		return arena.Snapshot{}, errGameClosed
	}

	select {
	case res := <-reply:
		return res.snapshot, res.err
	case <-h.done:
		return arena.Snapshot{}, errGameClosed
	}
}

// action translates a client message into an arena action.
func (h *Hub) action(msg ClientMessage) (func(*arena.Arena) error, bool) {
	switch msg.Type {
	case "add_player":
		return func(a *arena.Arena) error {
			if err := a.AddPlayer(msg.Name); err != nil {
				return err
			}
			logf(h.cfg, "GAMES: Player %q added to %s", strings.TrimSpace(msg.Name), h.id)
			return nil
		}, true

	case "rename_player":
		return func(a *arena.Arena) error {
			players := a.Players()
			if err := a.RenamePlayer(msg.Index, msg.Name); err != nil {
				return err
			}
			logf(h.cfg, "GAMES: Player %q renamed to %q in %s", players[msg.Index], strings.TrimSpace(msg.Name), h.id)
			return nil
		}, true

	case "delete_player":
		return func(a *arena.Arena) error {
			players := a.Players()
			if err := a.RemovePlayer(msg.Index); err != nil {
				return err
			}
			logf(h.cfg, "GAMES: Player %q removed from %s", players[msg.Index], h.id)
			return nil
		}, true

	case "start":
		return func(a *arena.Arena) error {
			return a.Start()
		}, true

	case "play":
		return func(a *arena.Arena) error {
			a.Play(msg.Row, msg.Col)
			return nil
		}, true

	case "reset":
		return func(a *arena.Arena) error {
			a.Reset()
			return nil
		}, true

	case "next_match":
		return func(a *arena.Arena) error {
			a.NextMatch()
			return nil
		}, true
	}

	return nil, false
}

// MatchStarted, MatchFinished and MatchAbandoned are called from within
// handle, on the hub goroutine.
func (h *Hub) MatchStarted(p arena.Pairing) {
	h.metrics.matchesStarted.Inc()
	logf(h.cfg, "GAMES: %q vs %q started in %s", p.First, p.Second, h.id)
}

func (h *Hub) MatchFinished(p arena.Pairing, winner string) {
	if winner == "" {
		h.metrics.matchesFinished.WithLabelValues("draw").Inc()
		logf(h.cfg, "GAMES: %q vs %q ended in a draw in %s", p.First, p.Second, h.id)
		return
	}

	h.metrics.matchesFinished.WithLabelValues("win").Inc()
	logf(h.cfg, "GAMES: %q won against %q vs %q in %s", winner, p.First, p.Second, h.id)
}

func (h *Hub) MatchAbandoned(p arena.Pairing) {
	h.metrics.matchesFinished.WithLabelValues("abandoned").Inc()
	logf(h.cfg, "GAMES: %q vs %q abandoned in %s", p.First, p.Second, h.id)
}

// closeAll stops the hub and disconnects all of its clients (used by reaper).
func (h *Hub) closeAll() {
	h.closing.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "tictactoe_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated game.
type GameManager struct {
	mu          sync.Mutex
	cfg         *Config
	metrics     *metrics
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newGameManager(cfg *Config, m *metrics, done <-chan struct{}) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		metrics:     m,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop(done)
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gm.metrics, gameID)
	gm.hubs[gameID] = hub
	gm.metrics.gamesActive.Inc()
	go hub.run()
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap removes hubs that have been idle since before cutoff.
func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		created, last := hub.createdAt, hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			gm.metrics.gamesActive.Dec()
			logf(gm.cfg, "GAMES: Reaped idle game %s after %s", id, last.Sub(created).Round(time.Second))
			go hub.closeAll()
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop(done <-chan struct{}) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		apply, ok := h.action(msg)
		if !ok {
			// ignore unknown types
			continue
		}

		select {
		case h.requests <- request{client: c, apply: apply}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := assets.ReadFile("assets/tictactoe/index.html")
		if err != nil {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(data)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerTicTacToe sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
//   - $path/:gameid/...      → JSON API, see registerAPI
func registerTicTacToe(cfg *Config, path string, mux *httprouter.Router, m *metrics, errs chan<- error, done <-chan struct{}) *GameManager {
	gm := newGameManager(cfg, m, done)

	// Root path → redirect to new random game
	mux.GET(cfg.prefix+path, m.instrument(path, redirectNewGame(cfg, path, gm)))

	// Per-game client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", m.instrument(path+"/:gameid", getIndexHandler(cfg)))

	// Per-game websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	// Per-game QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", m.instrument(path+"/:gameid/qr", qrHandler))

	registerAPI(cfg, path, mux, m, gm, errs)

	return gm
}
