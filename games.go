/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/icebreakers/engine"
)

// Most player names a single session will seat.
const maxPlayers = 12

// lifecycle is what every game package's *Game already provides.
type lifecycle interface {
	Phase() engine.Phase
	TimeRemaining() int
	Finished() bool
	Tick()
	Pause()
	Resume()
	Finish()
	Reset()
	Text() string
}

// driver adapts one game to the session protocol: it decodes game actions
// from client messages into typed calls and exposes a JSON-ready view.
type driver interface {
	lifecycle

	// handle applies a game action. The returned value, if any, is sent
	// back as feedback on the next state message.
	handle(msg ClientMessage) (any, error)

	// actions lists the game action types accepted in the current phase.
	actions() []string

	snapshot() any
}

// gameDef describes one game offered by the server.
type gameDef struct {
	slug  string
	title string
	blurb string

	// newDriver starts a game. onComplete must be called with the final
	// results exactly once per played game.
	newDriver func(names []string, opts json.RawMessage, rng *rand.Rand, onComplete func(any)) (driver, error)
}

var gameList = []*gameDef{
	twoTruthsGame,
	storyBuilderGame,
	timeTravelGame,
	questionLadderGame,
}

// decodeOptions fills dst from the raw options of a start message. An
// absent or null value leaves dst untouched so game defaults apply.
func decodeOptions(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return engine.Validate([]string{fmt.Sprintf("Invalid game options: %v", err)})
	}

	return nil
}

func errUnknownAction(action string) error {
	return fmt.Errorf("unknown action %q", action)
}

// checkNames rejects rosters too large to seat. Everything else about
// names is validated by the game itself.
func checkNames(names []string) error {
	if len(names) > maxPlayers {
		return engine.Validate([]string{fmt.Sprintf("At most %d players can play", maxPlayers)})
	}

	return nil
}

func serveGamePage(cfg *Config, game *gameDef, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		data, err := assets.ReadFile("assets/game.html")
		if err != nil {
			errs <- err

			return
		}

		page := strings.NewReplacer(
			"{{title}}", game.title,
			"{{slug}}", game.slug,
			"{{prefix}}", cfg.prefix,
			"{{favicon}}", getFavicon(cfg),
		).Replace(string(data))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		cspGame(cfg, w)

		written, err := w.Write([]byte(page))
		if err != nil {
			errs <- err

			return
		}

		logServed(cfg, game.title+" page", written, r, startTime)
	}
}

// qrHandler generates a PNG QR code pointing at the game page, so other
// devices can open the same game.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		path := strings.TrimSuffix(r.URL.Path, "/qr")

		png, err := qrcode.Encode(scheme+"://"+r.Host+path, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		_, _ = w.Write(png)
	}
}

// registerGame sets up routes so that:
//   - $path     → HTML client
//   - $path/ws  → WebSocket session, one game per connection
//   - $path/qr  → PNG QR code for the game URL
func registerGame(cfg *Config, game *gameDef, sm *SessionManager, mux *httprouter.Router, errs chan<- error) {
	path := cfg.prefix + "/" + game.slug

	mux.GET(path, serveGamePage(cfg, game, errs))
	mux.GET(path+"/ws", serveSession(cfg, game, sm))
	mux.GET(path+"/qr", qrHandler(cfg))
}
