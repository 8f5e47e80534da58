/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package questionladder implements Question Ladder: players take turns
// asking the next player a question, aiming to climb from small talk to
// real conversation. Each question is scored for depth, and notable
// moments are recorded as insights.
package questionladder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Seednode/icebreakers/engine"
)

const (
	PhaseAsking    engine.Phase = "asking"
	PhaseAnswering engine.Phase = "answering"
	PhaseComplete  engine.Phase = "complete"

	passedAnswer = "(passed)"

	detailedAnswerWords = 40
)

var transitions = engine.Table{
	PhaseAsking: {
		engine.TriggerAdvance: PhaseAnswering,
		engine.TriggerTimeUp:  PhaseAnswering,
	},
	PhaseAnswering: {
		engine.TriggerAdvance: PhaseAsking,
		engine.TriggerTimeUp:  PhaseAsking,
	},
}

var feelingWords = []string{
	"feel", "felt", "feeling", "afraid", "scared", "happy", "sad", "angry",
	"lonely", "proud", "ashamed", "grateful", "love", "hurt", "anxious",
}

type Options struct {
	MaxRounds     int
	AskingSeconds int
	AnswerSeconds int
	Vulnerability Vulnerability
	Rand          *rand.Rand
	OnComplete    func(Results)
}

func (o Options) withDefaults() Options {
	if o.MaxRounds <= 0 {
		o.MaxRounds = 6
	}
	if o.AskingSeconds <= 0 {
		o.AskingSeconds = 90
	}
	if o.AnswerSeconds <= 0 {
		o.AnswerSeconds = 120
	}
	if o.Vulnerability == "" {
		o.Vulnerability = VulnerabilityLow
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

type Exchange struct {
	AskerID    string   `json:"asker_id"`
	AnswererID string   `json:"answerer_id"`
	Question   string   `json:"question"`
	Suggested  bool     `json:"suggested"`
	Analysis   Analysis `json:"analysis"`
	Answer     string   `json:"answer"`
}

type Results struct {
	Exchanges []Exchange      `json:"exchanges"`
	Insights  []string        `json:"insights"`
	Standings []engine.Player `json:"standings"`
	Highest   int             `json:"highest_level"`
}

type Game struct {
	opts    Options
	roster  *engine.Roster
	machine *engine.Machine

	usedPrompts engine.Used[string]
	exchanges   []Exchange
	pending     *Exchange
	insights    []string
	highest     int
	done        bool
}

func New(names []string, opts Options) (*Game, error) {
	roster, err := engine.NewRoster(names, engine.MinPlayers)
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	if _, ok := prompts[opts.Vulnerability]; !ok {
		return nil, fmt.Errorf("unknown vulnerability level %q", opts.Vulnerability)
	}

	g := &Game{
		opts:   opts,
		roster: roster,
	}
	g.init()

	return g, nil
}

func (g *Game) init() {
	g.usedPrompts = nil
	g.exchanges = nil
	g.pending = nil
	g.insights = nil
	g.highest = 0
	g.done = false

	g.machine = engine.NewMachine(transitions, map[engine.Phase]int{
		PhaseAsking:    g.opts.AskingSeconds,
		PhaseAnswering: g.opts.AnswerSeconds,
	}, PhaseAsking, PhaseComplete, engine.NewCountdown(g.timeUp))
}

func (g *Game) Reset() {
	g.roster.Reset()
	g.init()
}

func (g *Game) Phase() engine.Phase { return g.machine.Phase() }

func (g *Game) TimeRemaining() int { return g.machine.TimeRemaining() }

func (g *Game) Finished() bool { return g.machine.Finished() }

func (g *Game) Players() []engine.Player { return g.roster.Players() }

// Asker is the active player.
func (g *Game) Asker() engine.Player { return g.roster.Active() }

// Answerer is the player after the asker.
func (g *Game) Answerer() engine.Player {
	return g.roster.At(engine.Next(g.roster.ActiveIndex(), g.roster.Len()))
}

func (g *Game) Tick() { g.machine.Timer().Tick() }

func (g *Game) Pause() { g.machine.Timer().Pause() }

func (g *Game) Resume() { g.machine.Timer().Resume() }

// Suggestion draws a question from the game's vulnerability pool.
func (g *Game) Suggestion() string {
	var q string
	q, g.usedPrompts = engine.DrawOne(g.opts.Rand, prompts[g.opts.Vulnerability], g.usedPrompts)
	return q
}

func (g *Game) previousAnswer() string {
	if n := len(g.exchanges); n > 0 {
		if a := g.exchanges[n-1].Answer; a != passedAnswer {
			return a
		}
	}
	return ""
}

// Ask records the active player's question and returns its analysis.
func (g *Game) Ask(playerID, question string) (Analysis, error) {
	if g.Phase() != PhaseAsking {
		return Analysis{}, engine.ErrWrongPhase
	}
	if _, ok := g.roster.Get(playerID); !ok {
		return Analysis{}, engine.ErrUnknownPlayer
	}
	if playerID != g.Asker().ID {
		return Analysis{}, engine.ErrNotYourTurn
	}

	question = strings.TrimSpace(question)

	var reasons []string
	if len(engine.Words(question)) < 3 {
		reasons = append(reasons, "Question must have at least 3 words")
	}
	if !strings.HasSuffix(question, "?") {
		reasons = append(reasons, "Question must end with a question mark")
	}
	if err := engine.Validate(reasons); err != nil {
		return Analysis{}, err
	}

	return g.ask(question, false, engine.TriggerAdvance), nil
}

func (g *Game) ask(question string, suggested bool, trigger engine.Trigger) Analysis {
	asker := g.Asker()
	analysis := Analyze(question, g.previousAnswer())

	g.pending = &Exchange{
		AskerID:    asker.ID,
		AnswererID: g.Answerer().ID,
		Question:   question,
		Suggested:  suggested,
		Analysis:   analysis,
	}

	if !suggested {
		g.roster.AddScore(asker.ID, analysis.Score)
	}

	if analysis.Level >= 4 {
		g.insight(fmt.Sprintf("%s invited vulnerability with a level %d question", asker.Name, analysis.Level))
	}
	if analysis.FollowUp && analysis.Level >= 3 {
		g.insight(fmt.Sprintf("%s listened closely and dug deeper", asker.Name))
	}
	if analysis.Level > g.highest {
		if g.highest > 0 {
			g.insight(fmt.Sprintf("The conversation climbed to level %d", analysis.Level))
		}
		g.highest = analysis.Level
	}

	g.machine.Fire(trigger)

	return analysis
}

// Answer records the answerer's reply to the pending question.
func (g *Game) Answer(playerID, answer string) error {
	if g.Phase() != PhaseAnswering || g.pending == nil {
		return engine.ErrWrongPhase
	}
	if _, ok := g.roster.Get(playerID); !ok {
		return engine.ErrUnknownPlayer
	}
	if playerID != g.pending.AnswererID {
		return engine.ErrNotYourTurn
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return engine.Validate([]string{"Answer cannot be empty"})
	}

	g.answer(answer, engine.TriggerAdvance)

	return nil
}

func (g *Game) answer(answer string, trigger engine.Trigger) {
	ex := *g.pending
	ex.Answer = answer
	g.pending = nil
	g.exchanges = append(g.exchanges, ex)

	answerer, _ := g.roster.Get(ex.AnswererID)

	if answer != passedAnswer {
		g.roster.AddScore(answerer.ID, 1)

		if engine.ContainsAny(answer, feelingWords) {
			g.insight(fmt.Sprintf("%s shared feelings openly", answerer.Name))
		}
		if len(engine.Words(answer)) >= detailedAnswerWords {
			g.insight(fmt.Sprintf("%s gave a thoughtful, detailed answer", answerer.Name))
		}
	}

	if len(g.exchanges) >= g.opts.MaxRounds {
		g.finish()
		return
	}

	g.roster.SetActive(g.roster.Index(answerer.ID))
	g.machine.Fire(trigger)
}

func (g *Game) insight(text string) {
	for _, existing := range g.insights {
		if existing == text {
			return
		}
	}

	g.insights = append(g.insights, text)
}

func (g *Game) Finish() {
	g.finish()
}

func (g *Game) timeUp() {
	switch g.Phase() {
	case PhaseAsking:
		g.ask(g.Suggestion(), true, engine.TriggerTimeUp)
	case PhaseAnswering:
		g.answer(passedAnswer, engine.TriggerTimeUp)
	}
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

func (g *Game) Exchanges() []Exchange {
	out := make([]Exchange, len(g.exchanges))
	copy(out, g.exchanges)
	return out
}

func (g *Game) Insights() []string {
	out := make([]string, len(g.insights))
	copy(out, g.insights)
	return out
}

// Text renders the conversation for export.
func (g *Game) Text() string {
	names := make(map[string]string, g.roster.Len())
	for _, p := range g.roster.Players() {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	b.WriteString("Question Ladder\n\n")

	for i, ex := range g.exchanges {
		fmt.Fprintf(&b, "%d. %s asked %s (level %d): %s\n   %s\n",
			i+1, names[ex.AskerID], names[ex.AnswererID], ex.Analysis.Level, ex.Question, ex.Answer)
	}

	if len(g.insights) > 0 {
		b.WriteString("\nInsights:\n")
		for _, in := range g.insights {
			fmt.Fprintf(&b, "- %s\n", in)
		}
	}

	return b.String()
}

func (g *Game) Results() Results {
	return Results{
		Exchanges: g.Exchanges(),
		Insights:  g.Insights(),
		Standings: g.roster.Standings(),
		Highest:   g.highest,
	}
}

type Snapshot struct {
	Phase         engine.Phase    `json:"phase"`
	TimeRemaining int             `json:"time_remaining"`
	Vulnerability Vulnerability   `json:"vulnerability"`
	Players       []engine.Player `json:"players"`
	Asker         string          `json:"asker,omitempty"`
	Answerer      string          `json:"answerer,omitempty"`
	Pending       *Exchange       `json:"pending,omitempty"`
	Exchanges     []Exchange      `json:"exchanges"`
	Insights      []string        `json:"insights"`
	Highest       int             `json:"highest_level"`
	MaxRounds     int             `json:"max_rounds"`
	Standings     []engine.Player `json:"standings"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         g.Phase(),
		TimeRemaining: g.TimeRemaining(),
		Vulnerability: g.opts.Vulnerability,
		Players:       g.roster.Players(),
		Exchanges:     g.Exchanges(),
		Insights:      g.Insights(),
		Highest:       g.highest,
		MaxRounds:     g.opts.MaxRounds,
		Standings:     g.roster.Standings(),
	}

	if !g.Finished() {
		s.Asker = g.Asker().ID
		s.Answerer = g.Answerer().ID
	}

	if g.pending != nil {
		p := *g.pending
		s.Pending = &p
	}

	return s
}
