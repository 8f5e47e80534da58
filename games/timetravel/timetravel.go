/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package timetravel implements Time Travel Adventures.
//
// Each player is sent to a different era with a role. Every round draws
// a scenario; players take turns describing what they do, scored for how
// well the action fits their era. Everyone then votes for the best
// action. Votes not cast when time runs out are filled in at random.
package timetravel

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Seednode/icebreakers/engine"
)

const (
	PhaseBriefing engine.Phase = "briefing"
	PhaseActing   engine.Phase = "acting"
	PhaseVoting   engine.Phase = "voting"
	PhaseResults  engine.Phase = "results"
	PhaseFinished engine.Phase = "finished"

	// triggerTurn repeats the acting phase for the next player.
	triggerTurn engine.Trigger = "turn"

	MaxAccuracy = 100

	votePoints = 2
)

var transitions = engine.Table{
	PhaseBriefing: {
		engine.TriggerAdvance: PhaseActing,
		engine.TriggerTimeUp:  PhaseActing,
	},
	PhaseActing: {
		triggerTurn:           PhaseActing,
		engine.TriggerAdvance: PhaseVoting,
	},
	PhaseVoting: {
		engine.TriggerAdvance: PhaseResults,
		engine.TriggerTimeUp:  PhaseResults,
	},
	PhaseResults: {
		engine.TriggerAdvance: PhaseBriefing,
		engine.TriggerTimeUp:  PhaseBriefing,
	},
}

type Options struct {
	MaxRounds       int
	BriefingSeconds int
	ActingSeconds   int
	VotingSeconds   int
	ResultsSeconds  int

	// Rand drives era, role and scenario draws and the random votes cast
	// on timeout. Seed it for reproducible games.
	Rand *rand.Rand

	OnComplete func(Results)
}

func (o Options) withDefaults() Options {
	if o.MaxRounds <= 0 {
		o.MaxRounds = 3
	}
	if o.BriefingSeconds <= 0 {
		o.BriefingSeconds = 15
	}
	if o.ActingSeconds <= 0 {
		o.ActingSeconds = 60
	}
	if o.VotingSeconds <= 0 {
		o.VotingSeconds = 30
	}
	if o.ResultsSeconds <= 0 {
		o.ResultsSeconds = 10
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

type Assignment struct {
	Era  Era    `json:"era"`
	Role string `json:"role"`
}

type Action struct {
	PlayerID string `json:"player_id"`
	Era      string `json:"era"`
	Text     string `json:"text"`
	Accuracy int    `json:"accuracy"`
}

type Vote struct {
	VoterID  string `json:"voter_id"`
	TargetID string `json:"target_id"`
	Random   bool   `json:"random"`
}

type Round struct {
	Number   int      `json:"number"`
	Scenario string   `json:"scenario"`
	Actions  []Action `json:"actions"`
	Votes    []Vote   `json:"votes"`
}

type Results struct {
	Rounds      []Round               `json:"rounds"`
	Assignments map[string]Assignment `json:"assignments"`
	Standings   []engine.Player       `json:"standings"`
}

type Game struct {
	opts    Options
	roster  *engine.Roster
	machine *engine.Machine

	assignments   map[string]Assignment
	usedScenarios engine.Used[string]

	round    int
	scenario string
	actions  []Action
	votes    map[string]string
	random   map[string]bool
	rounds   []Round
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
	g.assign()
	g.usedScenarios = nil
	g.rounds = nil
	g.round = 0
	g.done = false

	g.machine = engine.NewMachine(transitions, map[engine.Phase]int{
		PhaseBriefing: g.opts.BriefingSeconds,
		PhaseActing:   g.opts.ActingSeconds,
		PhaseVoting:   g.opts.VotingSeconds,
		PhaseResults:  g.opts.ResultsSeconds,
	}, PhaseBriefing, PhaseFinished, engine.NewCountdown(g.timeUp))

	g.beginRound()
}

// assign gives every player an era and a role, distinct until a pool runs out.
func (g *Game) assign() {
	n := g.roster.Len()

	names := make([]string, len(eras))
	byName := make(map[string]Era, len(eras))
	for i, e := range eras {
		names[i] = e.Name
		byName[e.Name] = e
	}

	picked, _ := engine.Draw(g.opts.Rand, names, n, nil)
	picks, _ := engine.Draw(g.opts.Rand, roles, n, nil)

	g.assignments = make(map[string]Assignment, n)
	for i, p := range g.roster.Players() {
		g.assignments[p.ID] = Assignment{
			Era:  byName[picked[i]],
			Role: picks[i],
		}
	}
}

func (g *Game) beginRound() {
	g.round++
	g.scenario, g.usedScenarios = engine.DrawOne(g.opts.Rand, scenarios, g.usedScenarios)
	g.actions = nil
	g.votes = make(map[string]string)
	g.random = make(map[string]bool)
	g.roster.SetActive(0)
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

func (g *Game) Scenario() string { return g.scenario }

func (g *Game) Round() int { return g.round }

func (g *Game) Assignment(playerID string) (Assignment, bool) {
	a, ok := g.assignments[playerID]
	return a, ok
}

func (g *Game) Tick() { g.machine.Timer().Tick() }

func (g *Game) Pause() { g.machine.Timer().Pause() }

func (g *Game) Resume() { g.machine.Timer().Resume() }

// Accuracy rates how well text fits the era, from 0 to MaxAccuracy:
// 20 points per distinct era keyword and up to 20 for length.
func Accuracy(text string, era Era) int {
	words := engine.Words(text)
	if len(words) == 0 {
		return 0
	}

	score := 20 * engine.CountMatches(text, era.Keywords)
	score += engine.Clamp(len(words), 0, 20)

	return engine.Clamp(score, 0, MaxAccuracy)
}

// Ready ends the briefing early.
func (g *Game) Ready() error {
	if g.Phase() != PhaseBriefing {
		return engine.ErrWrongPhase
	}

	g.machine.Fire(engine.TriggerAdvance)

	return nil
}

// Act records the active player's action for this round's scenario.
func (g *Game) Act(playerID, text string) (Action, error) {
	if g.Phase() != PhaseActing {
		return Action{}, engine.ErrWrongPhase
	}
	if _, ok := g.roster.Get(playerID); !ok {
		return Action{}, engine.ErrUnknownPlayer
	}
	if playerID != g.Active().ID {
		return Action{}, engine.ErrNotYourTurn
	}

	text = strings.TrimSpace(text)
	if len(engine.Words(text)) < 3 {
		return Action{}, engine.Validate([]string{"Describe your action in at least 3 words"})
	}

	action := g.record(playerID, text)

	return action, nil
}

func (g *Game) record(playerID, text string) Action {
	era := g.assignments[playerID].Era

	action := Action{
		PlayerID: playerID,
		Era:      era.Name,
		Text:     text,
		Accuracy: Accuracy(text, era),
	}
	g.actions = append(g.actions, action)

	g.nextActor()

	return action
}

func (g *Game) nextActor() {
	if g.roster.ActiveIndex() == g.roster.Len()-1 {
		g.machine.Fire(engine.TriggerAdvance)
		return
	}

	g.roster.Advance()
	g.machine.Fire(triggerTurn)
}

// Vote casts playerID's vote for the best action of another player.
func (g *Game) Vote(playerID, targetID string) error {
	if g.Phase() != PhaseVoting {
		return engine.ErrWrongPhase
	}
	if _, ok := g.roster.Get(playerID); !ok {
		return engine.ErrUnknownPlayer
	}
	if _, ok := g.roster.Get(targetID); !ok || targetID == playerID {
		return engine.ErrInvalidTarget
	}
	if _, ok := g.votes[playerID]; ok {
		return engine.ErrAlreadyActed
	}

	g.votes[playerID] = targetID

	if len(g.votes) == g.roster.Len() {
		g.tally(engine.TriggerAdvance)
	}

	return nil
}

// Next ends the results early.
func (g *Game) Next() error {
	if g.Phase() != PhaseResults {
		return engine.ErrWrongPhase
	}

	g.next(engine.TriggerAdvance)

	return nil
}

func (g *Game) Finish() {
	if g.Finished() {
		return
	}

	switch g.Phase() {
	case PhaseActing:
		g.fillActions()
		g.fillVotes()
		g.score()
	case PhaseVoting:
		g.fillVotes()
		g.score()
	}

	g.finish()
}

func (g *Game) timeUp() {
	switch g.Phase() {
	case PhaseBriefing:
		g.machine.Fire(engine.TriggerTimeUp)
	case PhaseActing:
		g.record(g.Active().ID, "")
	case PhaseVoting:
		g.tally(engine.TriggerTimeUp)
	case PhaseResults:
		g.next(engine.TriggerTimeUp)
	}
}

// fillActions records an empty action for everyone still to act, without
// moving the phase.
func (g *Game) fillActions() {
	acted := make(map[string]bool, len(g.actions))
	for _, a := range g.actions {
		acted[a.PlayerID] = true
	}

	for _, p := range g.roster.Players() {
		if !acted[p.ID] {
			g.actions = append(g.actions, Action{
				PlayerID: p.ID,
				Era:      g.assignments[p.ID].Era.Name,
			})
		}
	}
}

// fillVotes votes at random for every player who has not voted.
func (g *Game) fillVotes() {
	players := g.roster.Players()

	for _, p := range players {
		if _, ok := g.votes[p.ID]; ok {
			continue
		}

		others := make([]string, 0, len(players)-1)
		for _, o := range players {
			if o.ID != p.ID {
				others = append(others, o.ID)
			}
		}

		g.votes[p.ID] = others[g.opts.Rand.Intn(len(others))]
		g.random[p.ID] = true
	}
}

func (g *Game) tally(trigger engine.Trigger) {
	if trigger == engine.TriggerTimeUp {
		g.fillVotes()
	}

	g.score()
	g.machine.Fire(trigger)
}

func (g *Game) score() {
	round := Round{
		Number:   g.round,
		Scenario: g.scenario,
		Actions:  append([]Action(nil), g.actions...),
	}

	for _, a := range g.actions {
		g.roster.AddScore(a.PlayerID, a.Accuracy/20)
	}

	for _, p := range g.roster.Players() {
		target, ok := g.votes[p.ID]
		if !ok {
			continue
		}

		g.roster.AddScore(target, votePoints)
		round.Votes = append(round.Votes, Vote{
			VoterID:  p.ID,
			TargetID: target,
			Random:   g.random[p.ID],
		})
	}

	g.rounds = append(g.rounds, round)
}

func (g *Game) next(trigger engine.Trigger) {
	if g.round >= g.opts.MaxRounds {
		g.finish()
		return
	}

	g.beginRound()
	g.machine.Fire(trigger)
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

func (g *Game) Rounds() []Round {
	out := make([]Round, len(g.rounds))
	copy(out, g.rounds)
	return out
}

// Text renders every played round and the standings for export.
func (g *Game) Text() string {
	names := make(map[string]string, g.roster.Len())
	for _, p := range g.roster.Players() {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	b.WriteString("Time Travel Adventures\n")

	for _, r := range g.rounds {
		fmt.Fprintf(&b, "\nRound %d: %s\n", r.Number, r.Scenario)
		for _, a := range r.Actions {
			text := a.Text
			if text == "" {
				text = "(no action)"
			}
			fmt.Fprintf(&b, "- %s in %s: %s [%d%%]\n", names[a.PlayerID], a.Era, text, a.Accuracy)
		}
	}

	b.WriteString("\nStandings:\n")
	for i, p := range g.roster.Standings() {
		fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, p.Name, p.Score)
	}

	return b.String()
}

func (g *Game) Results() Results {
	assignments := make(map[string]Assignment, len(g.assignments))
	for k, v := range g.assignments {
		assignments[k] = v
	}

	return Results{
		Rounds:      g.Rounds(),
		Assignments: assignments,
		Standings:   g.roster.Standings(),
	}
}

type Snapshot struct {
	Phase         engine.Phase          `json:"phase"`
	TimeRemaining int                   `json:"time_remaining"`
	Round         int                   `json:"round"`
	MaxRounds     int                   `json:"max_rounds"`
	Scenario      string                `json:"scenario"`
	Players       []engine.Player       `json:"players"`
	Active        string                `json:"active,omitempty"`
	Assignments   map[string]Assignment `json:"assignments"`
	Actions       []Action              `json:"actions"`
	Voted         []string              `json:"voted"`
	LastRound     *Round                `json:"last_round,omitempty"`
	Standings     []engine.Player       `json:"standings"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         g.Phase(),
		TimeRemaining: g.TimeRemaining(),
		Round:         g.round,
		MaxRounds:     g.opts.MaxRounds,
		Scenario:      g.scenario,
		Players:       g.roster.Players(),
		Assignments:   g.Results().Assignments,
		Actions:       append([]Action(nil), g.actions...),
		Standings:     g.roster.Standings(),
	}

	if g.Phase() == PhaseActing {
		s.Active = g.Active().ID
	}

	for _, p := range s.Players {
		if _, ok := g.votes[p.ID]; ok {
			s.Voted = append(s.Voted, p.ID)
		}
	}

	if n := len(g.rounds); n > 0 && g.Phase() != PhaseVoting && g.Phase() != PhaseActing {
		last := g.rounds[n-1]
		s.LastRound = &last
	}

	return s
}
