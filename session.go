/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Game sessions.
//
// Each WebSocket connection to $path/ws owns exactly one game session:
// - The session goroutine is the only code that touches the game
// - The read pump throttles inbound messages and feeds the session inbox
// - Frames that fail to decode are reported without ending the session
// - An engine.Interval pulses the session once per second to drive timers
// - The write pump drains the send queue; a full queue ends the session
// - Sessions idle longer than the configured timeout are reaped
// - Closing the connection discards the game

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"

	"github.com/Seednode/icebreakers/engine"
)

const (
	sendQueueSize = 16
	tickPeriod    = time.Second
)

// ClientMessage is every message a browser may send. Only the fields
// relevant to Type are read.
type ClientMessage struct {
	Type string `json:"type"`

	// start
	Players []string        `json:"players,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`

	// game actions
	PlayerID   string   `json:"player_id,omitempty"`
	Statements []string `json:"statements,omitempty"`
	Lie        *int     `json:"lie,omitempty"`
	Index      *int     `json:"index,omitempty"`
	Text       string   `json:"text,omitempty"`
	TargetID   string   `json:"target_id,omitempty"`

	// export
	Format string `json:"format,omitempty"`
}

// SessionInfoMessage is sent immediately on connect.
type SessionInfoMessage struct {
	Type       string `json:"type"` // "session_info"
	SessionID  string `json:"session_id"`
	Game       string `json:"game"`
	Title      string `json:"title"`
	MaxPlayers int    `json:"max_players"`
	Version    string `json:"version"`
}

// StateMessage carries a fresh snapshot after every change and every tick.
type StateMessage struct {
	Type          string       `json:"type"` // "state"
	Game          string       `json:"game"`
	Phase         engine.Phase `json:"phase"`
	TimeRemaining int          `json:"time_remaining"`
	Paused        bool         `json:"paused"`
	Finished      bool         `json:"finished"`
	Actions       []string     `json:"actions"`
	Snapshot      any          `json:"snapshot"`
	Feedback      any          `json:"feedback,omitempty"`
}

// InvalidMessage lists why a submission was rejected. State is unchanged.
type InvalidMessage struct {
	Type    string   `json:"type"` // "invalid"
	Action  string   `json:"action"`
	Reasons []string `json:"reasons"`
}

// ErrorMessage reports an action that could not be applied.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}

// ResultsMessage is sent once when a game reaches its final phase.
type ResultsMessage struct {
	Type    string `json:"type"` // "results"
	Game    string `json:"game"`
	Results any    `json:"results"`
}

type Session struct {
	id   string
	cfg  *Config
	game *gameDef
	conn *websocket.Conn
	rng  *rand.Rand

	send    chan any
	inbox   chan inbound
	pulse   chan struct{}
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	lastActive time.Time

	// Owned by the run loop.
	driver    driver
	paused    bool
	lastPhase engine.Phase
	feedback  any
}

func newSession(ctx context.Context, cfg *Config, game *gameDef, conn *websocket.Conn) *Session {
	ctx, cancel := context.WithCancel(ctx)

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		game:       game,
		conn:       conn,
		rng:        rand.New(rand.NewSource(seed)),
		send:       make(chan any, sendQueueSize),
		inbox:      make(chan inbound),
		pulse:      make(chan struct{}),
		limiter:    rate.NewLimiter(rate.Limit(cfg.messageRate), cfg.messageBurst),
		ctx:        ctx,
		cancel:     cancel,
		lastActive: time.Now(),
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastActive
}

// close ends the session from any goroutine.
func (s *Session) close() {
	s.cancel()
}

// run is the session event loop. It owns the game and the send channel.
func (s *Session) run(clock engine.Clock) {
	interval := engine.NewInterval(clock, tickPeriod, func() {
		select {
		case s.pulse <- struct{}{}:
		case <-s.ctx.Done():
		}
	})

	defer func() {
		s.cancel()
		interval.Stop()
		close(s.send)
	}()

	s.push(SessionInfoMessage{
		Type:       "session_info",
		SessionID:  s.id,
		Game:       s.game.slug,
		Title:      s.game.title,
		MaxPlayers: maxPlayers,
		Version:    releaseVersion,
	})

	for {
		select {
		case <-s.ctx.Done():
			return
		case in := <-s.inbox:
			s.touch()
			if in.err != nil {
				actionsRejected.WithLabelValues(s.game.slug, "malformed").Inc()
				s.pushError("", fmt.Errorf("malformed message: %w", in.err))
				continue
			}
			s.handle(in.msg)
		case <-s.pulse:
			s.tick()
		}
	}
}

func (s *Session) tick() {
	if s.driver == nil || s.driver.Finished() || s.paused {
		return
	}

	s.driver.Tick()
	s.observe()
	s.pushState()
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case "start":
		s.start(msg)
		return
	case "":
		s.pushError(msg.Type, errors.New("missing message type"))
		return
	}

	if s.driver == nil {
		s.pushError(msg.Type, errors.New("no game in progress, start one first"))
		return
	}

	switch msg.Type {
	case "pause":
		if !s.driver.Finished() {
			s.driver.Pause()
			s.paused = true
		}
	case "resume":
		if s.paused {
			s.driver.Resume()
			s.paused = false
		}
	case "finish":
		s.driver.Finish()
		s.paused = false
	case "reset":
		s.driver.Reset()
		s.paused = false
		s.feedback = nil
		logf(s.cfg, "GAMES: Reset %s session %s", s.game.slug, s.id)
	case "export":
		s.export(msg.Format)
		return
	default:
		if s.paused {
			s.reject(msg.Type, errors.New("game is paused"))
			return
		}

		feedback, err := s.driver.handle(msg)
		if err != nil {
			s.reject(msg.Type, err)
			return
		}
		s.feedback = feedback
	}

	s.observe()
	s.pushState()
}

func (s *Session) start(msg ClientMessage) {
	if err := checkNames(msg.Players); err != nil {
		s.reject(msg.Type, err)
		return
	}

	d, err := s.game.newDriver(msg.Players, msg.Options, s.rng, s.complete)
	if err != nil {
		s.reject(msg.Type, err)
		return
	}

	if s.driver != nil && !s.driver.Finished() {
		logf(s.cfg, "GAMES: Abandoned %s game in session %s", s.game.slug, s.id)
	}

	s.driver = d
	s.paused = false
	s.feedback = nil
	s.lastPhase = d.Phase()

	logf(s.cfg, "GAMES: Started %s with %d players in session %s", s.game.slug, len(msg.Players), s.id)

	s.pushState()
}

// complete is handed to the game as its completion callback. It runs on
// the session goroutine, inside whichever call finished the game.
func (s *Session) complete(results any) {
	gamesCompleted.WithLabelValues(s.game.slug).Inc()
	logf(s.cfg, "GAMES: Completed %s in session %s", s.game.slug, s.id)

	s.push(ResultsMessage{
		Type:    "results",
		Game:    s.game.slug,
		Results: results,
	})
}

// observe records phase transitions since the last call.
func (s *Session) observe() {
	phase := s.driver.Phase()
	if phase == s.lastPhase {
		return
	}

	phaseTransitions.WithLabelValues(s.game.slug, string(phase)).Inc()
	logf(s.cfg, "GAMES: %s session %s moved from %s to %s", s.game.slug, s.id, s.lastPhase, phase)

	s.lastPhase = phase
}

func (s *Session) availableActions() []string {
	var out []string

	if s.driver.Finished() {
		return append(out, "start", "reset", "export")
	}

	if !s.paused {
		out = append(out, s.driver.actions()...)
	}

	switch {
	case s.paused:
		out = append(out, "resume")
	case s.driver.TimeRemaining() > 0:
		out = append(out, "pause")
	}

	return append(out, "finish", "reset", "export")
}

func (s *Session) pushState() {
	s.push(StateMessage{
		Type:          "state",
		Game:          s.game.slug,
		Phase:         s.driver.Phase(),
		TimeRemaining: s.driver.TimeRemaining(),
		Paused:        s.paused,
		Finished:      s.driver.Finished(),
		Actions:       s.availableActions(),
		Snapshot:      s.driver.snapshot(),
		Feedback:      s.feedback,
	})
}

func (s *Session) reject(action string, err error) {
	if reasons := engine.Reasons(err); reasons != nil {
		actionsRejected.WithLabelValues(s.game.slug, "invalid").Inc()

		s.push(InvalidMessage{
			Type:    "invalid",
			Action:  action,
			Reasons: reasons,
		})

		return
	}

	actionsRejected.WithLabelValues(s.game.slug, rejectReason(err)).Inc()
	s.pushError(action, err)
}

func (s *Session) pushError(action string, err error) {
	s.push(ErrorMessage{
		Type:    "error",
		Action:  action,
		Message: err.Error(),
	})
}

// rejectReason maps an error to a low-cardinality metric label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, engine.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, engine.ErrAlreadyActed):
		return "already_acted"
	case errors.Is(err, engine.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, engine.ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, engine.ErrTooFewPlayers),
		errors.Is(err, engine.ErrEmptyName),
		errors.Is(err, engine.ErrDuplicateName):
		return "roster"
	default:
		return "other"
	}
}

// push queues msg without blocking. A client that cannot keep up is
// disconnected.
func (s *Session) push(msg any) {
	select {
	case s.send <- msg:
	default:
		logf(s.cfg, "GAMES: Send queue full for session %s, closing", s.id)
		s.cancel()
	}
}

// inbound is one frame from the client. A frame that is not valid JSON
// carries the decode error instead of a message.
type inbound struct {
	msg ClientMessage
	err error
}

// readPump ends the session only when the connection fails. Frames that
// do not decode are reported back and the game carries on.
func (s *Session) readPump() {
	defer s.cancel()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		if !s.limiter.Allow() {
			messagesDropped.WithLabelValues(s.game.slug).Inc()
			continue
		}

		var in inbound
		in.err = json.Unmarshal(data, &in.msg)

		select {
		case s.inbox <- in:
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) writePump() {
	defer s.conn.Close()

	for msg := range s.send {
		if err := s.conn.WriteJSON(msg); err != nil {
			s.cancel()

			return
		}
	}
}

// SessionManager tracks live sessions for one game so idle ones can be reaped.
type SessionManager struct {
	ctx         context.Context
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	clock       engine.Clock
}

func newSessionManager(ctx context.Context, idleTimeout time.Duration) *SessionManager {
	sm := &SessionManager{
		ctx:         ctx,
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		clock:       engine.SystemClock{},
	}
	if idleTimeout > 0 {
		go sm.reaperLoop(ctx)
	}
	return sm
}

func (sm *SessionManager) add(s *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[s.id] = s
}

func (sm *SessionManager) remove(s *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, s.id)
}

func (sm *SessionManager) count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return len(sm.sessions)
}

// reap ends every session idle since before cutoff and returns how many.
func (sm *SessionManager) reap(cutoff time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	reaped := 0
	for id, s := range sm.sessions {
		if s.idleSince().Before(cutoff) {
			delete(sm.sessions, id)
			s.close()
			reaped++
		}
	}

	return reaped
}

// reapPeriod is how often idle sessions are checked for: half the idle
// timeout, but never more often than once a second.
func reapPeriod(idleTimeout time.Duration) time.Duration {
	return max(idleTimeout/2, time.Second)
}

// reaperLoop periodically removes sessions that have been idle longer than idleTimeout.
func (sm *SessionManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(reapPeriod(sm.idleTimeout))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.reap(time.Now().Add(-sm.idleTimeout))
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func serveSession(cfg *Config, game *gameDef, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errorf("GAMES: Upgrade failed for %s: %v", realIP(r), err)
			return
		}

		s := newSession(sm.ctx, cfg, game, conn)

		sm.add(s)
		sessionsStarted.WithLabelValues(game.slug).Inc()
		sessionsActive.WithLabelValues(game.slug).Inc()

		logf(cfg, "GAMES: Opened %s session %s for %s", game.slug, s.id, realIP(r))

		defer func() {
			sm.remove(s)
			sessionsActive.WithLabelValues(game.slug).Dec()
			logf(cfg, "GAMES: Closed %s session %s", game.slug, s.id)
		}()

		go s.writePump()
		go s.run(sm.clock)
		s.readPump()

		<-s.ctx.Done()
	}
}
