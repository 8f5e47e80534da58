/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package storybuilder implements Story Building Symphony: players take
// turns adding one sentence to a shared story, each turn seeded with a
// random story element to work in.
package storybuilder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Seednode/icebreakers/engine"
)

const (
	PhasePlaying  engine.Phase = "playing"
	PhaseFinished engine.Phase = "finished"

	// triggerTurn repeats the playing phase for the next player.
	triggerTurn engine.Trigger = "turn"

	MinWords = 3
	MaxWords = 50

	MaxScore = 10
)

var transitions = engine.Table{
	PhasePlaying: {
		triggerTurn: PhasePlaying,
	},
}

var feedback = []engine.Bucket{
	{Min: 8, Message: "Brilliant! The story soars."},
	{Min: 6, Message: "Great addition!"},
	{Min: 4, Message: "Nice, keep it flowing."},
	{Min: 0, Message: "Try weaving in your story element."},
}

type Options struct {
	MaxRounds   int
	TurnSeconds int
	Rand        *rand.Rand
	OnComplete  func(Results)
}

func (o Options) withDefaults() Options {
	if o.MaxRounds <= 0 {
		o.MaxRounds = 8
	}
	if o.TurnSeconds <= 0 {
		o.TurnSeconds = 60
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

type Entry struct {
	PlayerID string  `json:"player_id"`
	Author   string  `json:"author"`
	Text     string  `json:"text"`
	Element  Element `json:"element"`
	Score    int     `json:"score"`
	Feedback string  `json:"feedback"`
	Revision int     `json:"revision"`
}

type Results struct {
	Story     []Entry         `json:"story"`
	Standings []engine.Player `json:"standings"`
	Text      string          `json:"text"`
}

type Game struct {
	opts    Options
	roster  *engine.Roster
	machine *engine.Machine

	element   Element
	used      engine.Used[Element]
	story     []Entry
	revisions []Entry
	skipped   int
	done      bool
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
	g.story = nil
	g.revisions = nil
	g.skipped = 0
	g.done = false
	g.used = nil

	g.machine = engine.NewMachine(transitions, map[engine.Phase]int{
		PhasePlaying: g.opts.TurnSeconds,
	}, PhasePlaying, PhaseFinished, engine.NewCountdown(g.timeUp))

	g.drawElement()
}

func (g *Game) Reset() {
	g.roster.Reset()
	g.init()
}

func (g *Game) Phase() engine.Phase { return g.machine.Phase() }

func (g *Game) TimeRemaining() int { return g.machine.TimeRemaining() }

func (g *Game) Finished() bool { return g.machine.Finished() }

func (g *Game) Players() []engine.Player { return g.roster.Players() }

func (g *Game) Active() engine.Player { return g.roster.Active() }

// Element is the story element assigned to the active player.
func (g *Game) Element() Element { return g.element }

func (g *Game) Tick() { g.machine.Timer().Tick() }

func (g *Game) Pause() { g.machine.Timer().Pause() }

func (g *Game) Resume() { g.machine.Timer().Resume() }

func (g *Game) drawElement() {
	g.element, g.used = engine.DrawOne(g.opts.Rand, elements, g.used)
}

// Validate lists what is wrong with a sentence; nil means it is acceptable.
func Validate(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{"Sentence cannot be empty"}
	}

	var reasons []string

	words := len(strings.Fields(text))
	if words < MinWords {
		reasons = append(reasons, fmt.Sprintf("Sentence must have at least %d words", MinWords))
	}
	if words > MaxWords {
		reasons = append(reasons, fmt.Sprintf("Sentence must have at most %d words", MaxWords))
	}

	last, _ := utf8.DecodeLastRuneInString(strings.TrimRight(text, `"')”’`))
	if !strings.ContainsRune(".!?…", last) {
		reasons = append(reasons, "Sentence must end with proper punctuation")
	}

	return reasons
}

// Score rates a sentence from 0 to MaxScore: a length tier, a bonus for
// using the assigned element, and a point per distinct connective.
func Score(text string, element Element) int {
	words := engine.Words(text)
	if len(words) == 0 {
		return 0
	}

	score := 1
	switch n := len(words); {
	case n >= 16:
		score = 4
	case n >= 8:
		score = 3
	case n >= MinWords:
		score = 2
	}

	if element.Word != "" && engine.ContainsAny(text, []string{element.Word}) {
		score += 3
	}

	score += engine.Clamp(engine.CountMatches(text, connectives), 0, 3)

	return engine.Clamp(score, 0, MaxScore)
}

// Contribute adds the active player's sentence to the story.
func (g *Game) Contribute(playerID, text string) (Entry, error) {
	if g.Finished() {
		return Entry{}, engine.ErrWrongPhase
	}

	player, ok := g.roster.Get(playerID)
	if !ok {
		return Entry{}, engine.ErrUnknownPlayer
	}
	if player.ID != g.Active().ID {
		return Entry{}, engine.ErrNotYourTurn
	}

	if err := engine.Validate(Validate(text)); err != nil {
		return Entry{}, err
	}

	entry := g.entry(player, strings.TrimSpace(text), g.element)
	g.story = append(g.story, entry)
	g.roster.AddScore(player.ID, entry.Score)

	if len(g.story) >= g.opts.MaxRounds {
		g.finish()
		return entry, nil
	}

	g.nextTurn()

	return entry, nil
}

func (g *Game) entry(player engine.Player, text string, element Element) Entry {
	score := Score(text, element)

	return Entry{
		PlayerID: player.ID,
		Author:   player.Name,
		Text:     text,
		Element:  element,
		Score:    score,
		Feedback: engine.Feedback(score, feedback),
	}
}

// Revise replaces one of the author's own sentences. The replacement is
// scored against the original element and the superseded entry is kept
// in the revision log.
func (g *Game) Revise(playerID string, index int, text string) (Entry, error) {
	if g.Finished() {
		return Entry{}, engine.ErrWrongPhase
	}
	if index < 0 || index >= len(g.story) {
		return Entry{}, engine.ErrInvalidTarget
	}

	old := g.story[index]
	if old.PlayerID != playerID {
		return Entry{}, fmt.Errorf("%w: only the author can revise a sentence", engine.ErrInvalidTarget)
	}

	if err := engine.Validate(Validate(text)); err != nil {
		return Entry{}, err
	}

	player, _ := g.roster.Get(playerID)
	entry := g.entry(player, strings.TrimSpace(text), old.Element)
	entry.Revision = old.Revision + 1

	g.revisions = append(g.revisions, old)
	g.roster.AddScore(playerID, entry.Score-old.Score)

	story := make([]Entry, len(g.story))
	copy(story, g.story)
	story[index] = entry
	g.story = story

	return entry, nil
}

// Pass gives up the active player's turn.
func (g *Game) Pass(playerID string) error {
	if g.Finished() {
		return engine.ErrWrongPhase
	}
	if playerID != g.Active().ID {
		return engine.ErrNotYourTurn
	}

	g.skipped++
	g.nextTurn()

	return nil
}

func (g *Game) Finish() {
	g.finish()
}

func (g *Game) timeUp() {
	g.skipped++
	g.nextTurn()
}

func (g *Game) nextTurn() {
	g.roster.Advance()
	g.drawElement()
	g.machine.Fire(triggerTurn)
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

func (g *Game) Story() []Entry {
	out := make([]Entry, len(g.story))
	copy(out, g.story)
	return out
}

func (g *Game) Revisions() []Entry {
	out := make([]Entry, len(g.revisions))
	copy(out, g.revisions)
	return out
}

// Text renders the story as plain text for export.
func (g *Game) Text() string {
	var b strings.Builder

	b.WriteString("Story Building Symphony\n\n")

	sentences := make([]string, 0, len(g.story))
	for _, e := range g.story {
		sentences = append(sentences, e.Text)
	}
	b.WriteString(strings.Join(sentences, " "))
	b.WriteString("\n\nWritten by:\n")

	for _, p := range g.roster.Players() {
		fmt.Fprintf(&b, "- %s (%d)\n", p.Name, p.Score)
	}

	return b.String()
}

func (g *Game) Results() Results {
	return Results{
		Story:     g.Story(),
		Standings: g.roster.Standings(),
		Text:      g.Text(),
	}
}

type Snapshot struct {
	Phase         engine.Phase    `json:"phase"`
	TimeRemaining int             `json:"time_remaining"`
	Players       []engine.Player `json:"players"`
	Active        string          `json:"active"`
	Element       Element         `json:"element"`
	Story         []Entry         `json:"story"`
	MaxRounds     int             `json:"max_rounds"`
	Skipped       int             `json:"skipped"`
	Standings     []engine.Player `json:"standings"`
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Phase:         g.Phase(),
		TimeRemaining: g.TimeRemaining(),
		Players:       g.roster.Players(),
		Active:        g.Active().ID,
		Element:       g.element,
		Story:         g.Story(),
		MaxRounds:     g.opts.MaxRounds,
		Skipped:       g.skipped,
		Standings:     g.roster.Standings(),
	}
}
