/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package twotruths implements Two Truths and a Lie.
//
// Every player writes three statements and marks one as the lie. Players
// then take turns presenting; everyone else guesses which statement is
// the lie. A player's score is the number of opponents who caught their
// lie, so it always equals Detected.
package twotruths

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Seednode/icebreakers/engine"
)

const (
	PhaseWriting  engine.Phase = "writing"
	PhaseGuessing engine.Phase = "guessing"
	PhaseReveal   engine.Phase = "reveal"
	PhaseFinished engine.Phase = "finished"

	// triggerNext moves from a reveal to the next presenter.
	triggerNext engine.Trigger = "next"

	StatementCount   = 3
	minStatementSize = 3
)

var transitions = engine.Table{
	PhaseWriting: {
		engine.TriggerAdvance: PhaseGuessing,
		engine.TriggerTimeUp:  PhaseGuessing,
	},
	PhaseGuessing: {
		engine.TriggerAdvance: PhaseReveal,
		engine.TriggerTimeUp:  PhaseReveal,
	},
	PhaseReveal: {
		triggerNext: PhaseGuessing,
	},
}

type Options struct {
	WritingSeconds  int
	GuessingSeconds int
	RevealSeconds   int

	// Rand seeds the random guesses filled in on timeout. Nil means a
	// time-seeded source, so those guesses are not reproducible.
	Rand *rand.Rand

	// OnComplete is called once with the final results.
	OnComplete func(Results)
}

func (o Options) withDefaults() Options {
	if o.WritingSeconds <= 0 {
		o.WritingSeconds = 120
	}
	if o.GuessingSeconds <= 0 {
		o.GuessingSeconds = 45
	}
	if o.RevealSeconds <= 0 {
		o.RevealSeconds = 10
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

type Entry struct {
	Statements [StatementCount]string `json:"statements"`
	LieIndex   int                    `json:"-"`
}

type Guess struct {
	PlayerID string `json:"player_id"`
	Index    int    `json:"index"`
	Correct  bool   `json:"correct"`
	Random   bool   `json:"random"`
}

type Round struct {
	PresenterID string                 `json:"presenter_id"`
	Statements  [StatementCount]string `json:"statements"`
	LieIndex    int                    `json:"lie_index"`
	Guesses     []Guess                `json:"guesses"`
}

type Results struct {
	Rounds    []Round         `json:"rounds"`
	Standings []engine.Player `json:"standings"`
	Detected  map[string]int  `json:"detected"`
}

type Game struct {
	opts    Options
	roster  *engine.Roster
	machine *engine.Machine

	entries  map[string]Entry
	guesses  map[string]int
	random   map[string]bool
	rounds   []Round
	detected map[string]int
	done     bool
}

func New(names []string, opts Options) (*Game, error) {
	roster, err := engine.NewRoster(names, engine.MinPlayers)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:   opts.withDefaults(),
		roster: roster,
	}
	g.init()

	return g, nil
}

func (g *Game) init() {
	g.entries = make(map[string]Entry)
	g.guesses = make(map[string]int)
	g.random = make(map[string]bool)
	g.detected = make(map[string]int)
	g.rounds = nil
	g.done = false

	g.machine = engine.NewMachine(transitions, map[engine.Phase]int{
		PhaseWriting:  g.opts.WritingSeconds,
		PhaseGuessing: g.opts.GuessingSeconds,
		PhaseReveal:   g.opts.RevealSeconds,
	}, PhaseWriting, PhaseFinished, engine.NewCountdown(g.timeUp))
}

// Reset starts a fresh game with the same players.
func (g *Game) Reset() {
	g.roster.Reset()
	g.init()
}

func (g *Game) Phase() engine.Phase { return g.machine.Phase() }

func (g *Game) TimeRemaining() int { return g.machine.TimeRemaining() }

func (g *Game) Finished() bool { return g.machine.Finished() }

func (g *Game) Players() []engine.Player { return g.roster.Players() }

// Presenter is the player whose statements are being guessed.
func (g *Game) Presenter() engine.Player { return g.roster.Active() }

func (g *Game) Tick() { g.machine.Timer().Tick() }

func (g *Game) Pause() { g.machine.Timer().Pause() }

func (g *Game) Resume() { g.machine.Timer().Resume() }

// Submit records a player's statements during the writing phase.
// Resubmitting before guessing starts replaces the earlier entry.
func (g *Game) Submit(playerID string, statements []string, lieIndex int) error {
	if g.Phase() != PhaseWriting {
		return engine.ErrWrongPhase
	}
	if _, ok := g.roster.Get(playerID); !ok {
		return engine.ErrUnknownPlayer
	}

	entry, err := validateEntry(statements, lieIndex)
	if err != nil {
		return err
	}

	g.entries[playerID] = entry

	if len(g.entries) == g.roster.Len() {
		g.beginGuessing(engine.TriggerAdvance)
	}

	return nil
}

func validateEntry(statements []string, lieIndex int) (Entry, error) {
	var reasons []string

	if len(statements) != StatementCount {
		reasons = append(reasons, fmt.Sprintf("Exactly %d statements are required", StatementCount))
	}
	if lieIndex < 0 || lieIndex >= StatementCount {
		reasons = append(reasons, "Mark one statement as the lie")
	}

	var entry Entry
	seen := make(map[string]bool, len(statements))

	for i, s := range statements {
		if i >= StatementCount {
			break
		}

		s = strings.TrimSpace(s)
		switch {
		case s == "":
			reasons = append(reasons, fmt.Sprintf("Statement %d is empty", i+1))
		case len([]rune(s)) < minStatementSize:
			reasons = append(reasons, fmt.Sprintf("Statement %d is too short", i+1))
		case seen[strings.ToLower(s)]:
			reasons = append(reasons, fmt.Sprintf("Statement %d repeats an earlier one", i+1))
		}

		seen[strings.ToLower(s)] = true
		entry.Statements[i] = s
	}
	entry.LieIndex = lieIndex

	return entry, engine.Validate(reasons)
}

// Guess records one guess for the current presenter's lie.
func (g *Game) Guess(playerID string, index int) error {
	if g.Phase() != PhaseGuessing {
		return engine.ErrWrongPhase
	}
	if _, ok := g.roster.Get(playerID); !ok {
		return engine.ErrUnknownPlayer
	}
	if playerID == g.Presenter().ID {
		return fmt.Errorf("%w: presenters cannot guess their own lie", engine.ErrInvalidTarget)
	}
	if index < 0 || index >= StatementCount {
		return engine.Validate([]string{"Pick one of the three statements"})
	}
	if _, ok := g.guesses[playerID]; ok {
		return engine.ErrAlreadyActed
	}

	g.guesses[playerID] = index

	if len(g.guesses) == g.roster.Len()-1 {
		g.reveal(engine.TriggerAdvance)
	}

	return nil
}

// Next skips the rest of a reveal.
func (g *Game) Next() error {
	if g.Phase() != PhaseReveal {
		return engine.ErrWrongPhase
	}

	g.next()

	return nil
}

// Finish ends the game early.
func (g *Game) Finish() {
	if g.machine.Finished() {
		return
	}

	if g.Phase() == PhaseGuessing {
		g.fillGuesses()
		g.score()
	}

	g.finish()
}

func (g *Game) timeUp() {
	switch g.Phase() {
	case PhaseWriting:
		g.beginGuessing(engine.TriggerTimeUp)
	case PhaseGuessing:
		g.reveal(engine.TriggerTimeUp)
	case PhaseReveal:
		g.next()
	}
}

func (g *Game) hasEntry(p engine.Player) bool {
	_, ok := g.entries[p.ID]
	return ok
}

func (g *Game) beginGuessing(trigger engine.Trigger) {
	if len(g.entries) == 0 {
		g.finish()
		return
	}

	if !g.hasEntry(g.roster.Active()) {
		if _, ok := g.roster.AdvanceWhere(g.hasEntry); !ok {
			g.finish()
			return
		}
	}

	g.guesses = make(map[string]int)
	g.random = make(map[string]bool)
	g.machine.Fire(trigger)
}

func (g *Game) reveal(trigger engine.Trigger) {
	if trigger == engine.TriggerTimeUp {
		g.fillGuesses()
	}

	g.score()
	g.machine.Fire(trigger)
}

// fillGuesses guesses at random for every player who has not guessed.
func (g *Game) fillGuesses() {
	presenter := g.Presenter().ID
	for _, p := range g.roster.Players() {
		if p.ID == presenter {
			continue
		}
		if _, ok := g.guesses[p.ID]; ok {
			continue
		}
		g.guesses[p.ID] = g.opts.Rand.Intn(StatementCount)
		g.random[p.ID] = true
	}
}

func (g *Game) score() {
	presenter := g.Presenter()
	entry := g.entries[presenter.ID]

	round := Round{
		PresenterID: presenter.ID,
		Statements:  entry.Statements,
		LieIndex:    entry.LieIndex,
	}

	for _, p := range g.roster.Players() {
		idx, ok := g.guesses[p.ID]
		if !ok {
			continue
		}

		correct := idx == entry.LieIndex
		if correct {
			g.roster.AddScore(presenter.ID, 1)
			g.detected[presenter.ID]++
		}

		round.Guesses = append(round.Guesses, Guess{
			PlayerID: p.ID,
			Index:    idx,
			Correct:  correct,
			Random:   g.random[p.ID],
		})
	}

	g.rounds = append(g.rounds, round)
}

func (g *Game) presented(id string) bool {
	for _, r := range g.rounds {
		if r.PresenterID == id {
			return true
		}
	}
	return false
}

func (g *Game) next() {
	_, ok := g.roster.AdvanceWhere(func(p engine.Player) bool {
		return g.hasEntry(p) && !g.presented(p.ID)
	})
	if !ok {
		g.finish()
		return
	}

	g.guesses = make(map[string]int)
	g.random = make(map[string]bool)
	g.machine.Fire(triggerNext)
}

func (g *Game) finish() {
	g.machine.Fire(engine.TriggerFinish)

	if !g.done {
		g.done = true
		if g.opts.OnComplete != nil {
			g.opts.OnComplete(g.Results())
		}
	}
}

// Detected returns how many players caught the given player's lie.
func (g *Game) Detected(playerID string) int {
	return g.detected[playerID]
}

func (g *Game) Rounds() []Round {
	out := make([]Round, len(g.rounds))
	copy(out, g.rounds)
	return out
}

// Text renders the finished rounds and standings for export.
func (g *Game) Text() string {
	names := make(map[string]string, g.roster.Len())
	for _, p := range g.roster.Players() {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	b.WriteString("Two Truths and a Lie\n")

	for _, r := range g.rounds {
		fmt.Fprintf(&b, "\n%s:\n", names[r.PresenterID])
		for i, st := range r.Statements {
			mark := " "
			if i == r.LieIndex {
				mark = "*"
			}
			fmt.Fprintf(&b, " %s %d. %s\n", mark, i+1, st)
		}

		correct := 0
		for _, gs := range r.Guesses {
			if gs.Correct {
				correct++
			}
		}
		fmt.Fprintf(&b, "   %d of %d spotted the lie\n", correct, len(r.Guesses))
	}

	b.WriteString("\nStandings:\n")
	for i, p := range g.roster.Standings() {
		fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, p.Name, p.Score)
	}

	return b.String()
}

func (g *Game) Results() Results {
	detected := make(map[string]int, len(g.detected))
	for k, v := range g.detected {
		detected[k] = v
	}

	return Results{
		Rounds:    g.Rounds(),
		Standings: g.roster.Standings(),
		Detected:  detected,
	}
}

type Snapshot struct {
	Phase         engine.Phase           `json:"phase"`
	TimeRemaining int                    `json:"time_remaining"`
	Players       []engine.Player        `json:"players"`
	Submitted     []string               `json:"submitted"`
	Presenter     string                 `json:"presenter,omitempty"`
	Statements    [StatementCount]string `json:"statements"`
	Guessed       []string               `json:"guessed"`
	LastRound     *Round                 `json:"last_round,omitempty"`
	Standings     []engine.Player        `json:"standings"`
}

// Snapshot is the view of the game safe to show everyone: the lie of the
// current presenter stays hidden until the reveal.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         g.Phase(),
		TimeRemaining: g.TimeRemaining(),
		Players:       g.roster.Players(),
		Standings:     g.roster.Standings(),
	}

	for _, p := range s.Players {
		if g.hasEntry(p) {
			s.Submitted = append(s.Submitted, p.ID)
		}
		if _, ok := g.guesses[p.ID]; ok {
			s.Guessed = append(s.Guessed, p.ID)
		}
	}

	switch g.Phase() {
	case PhaseGuessing, PhaseReveal:
		presenter := g.Presenter()
		s.Presenter = presenter.ID
		s.Statements = g.entries[presenter.ID].Statements
	}

	if n := len(g.rounds); n > 0 && g.Phase() != PhaseGuessing {
		last := g.rounds[n-1]
		s.LastRound = &last
	}

	return s
}
