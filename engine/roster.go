/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MinPlayers is the smallest roster any turn-based game will start with.
const MinPlayers = 2

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsActive bool   `json:"is_active"`
}

// Next returns the index after current, wrapping modulo count.
// A count of one always yields zero; a count of zero or less is a no-op.
func Next(current, count int) int {
	if count <= 0 {
		return 0
	}

	return (current + 1) % count
}

// Roster is the ordered player list plus the single active index.
type Roster struct {
	players []Player
	active  int
}

// NewRoster builds a roster from display names, rejecting empty and
// duplicate names and any roster smaller than minPlayers.
func NewRoster(names []string, minPlayers int) (*Roster, error) {
	if minPlayers < MinPlayers {
		minPlayers = MinPlayers
	}

	seen := make(map[string]bool, len(names))
	players := make([]Player, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrEmptyName
		}

		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[key] = true

		players = append(players, Player{
			ID:   uuid.NewString(),
			Name: name,
		})
	}

	if len(players) < minPlayers {
		return nil, fmt.Errorf("%w: need at least %d, got %d", ErrTooFewPlayers, minPlayers, len(players))
	}

	r := &Roster{players: players}
	r.SetActive(0)

	return r, nil
}

func (r *Roster) Len() int {
	return len(r.players)
}

func (r *Roster) ActiveIndex() int {
	return r.active
}

// Active returns a copy of the active player.
func (r *Roster) Active() Player {
	if len(r.players) == 0 {
		return Player{}
	}

	return r.players[r.active]
}

// SetActive moves the active flag to index i. Out-of-range indexes are ignored.
func (r *Roster) SetActive(i int) {
	if i < 0 || i >= len(r.players) {
		return
	}

	r.active = i
	for j := range r.players {
		r.players[j].IsActive = j == i
	}
}

// Advance moves to the next player and returns the new index.
func (r *Roster) Advance() int {
	r.SetActive(Next(r.active, len(r.players)))

	return r.active
}

// AdvanceWhere moves to the next player satisfying ok, searching at most
// one full lap. It reports false, leaving the roster unchanged, when no
// other player qualifies.
func (r *Roster) AdvanceWhere(ok func(Player) bool) (int, bool) {
	n := len(r.players)
	for i := 1; i <= n; i++ {
		next := (r.active + i) % n
		if next == r.active {
			break
		}
		if ok(r.players[next]) {
			r.SetActive(next)
			return next, true
		}
	}

	return r.active, false
}

// Index returns the position of the player with id, or -1.
func (r *Roster) Index(id string) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}

	return -1
}

func (r *Roster) Get(id string) (Player, bool) {
	i := r.Index(id)
	if i < 0 {
		return Player{}, false
	}

	return r.players[i], true
}

func (r *Roster) At(i int) Player {
	return r.players[i]
}

// AddScore adds delta to the player's score.
func (r *Roster) AddScore(id string, delta int) {
	if i := r.Index(id); i >= 0 {
		r.players[i].Score += delta
	}
}

// Players returns a copy of the roster in turn order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)

	return out
}

// Standings returns the players sorted by score, highest first, ties
// broken by turn order. It is computed fresh on every call.
func (r *Roster) Standings() []Player {
	out := r.Players()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Reset zeroes every score and makes the first player active.
func (r *Roster) Reset() {
	for i := range r.players {
		r.players[i].Score = 0
	}
	r.SetActive(0)
}
