/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

import "sort"

type Phase string

type Trigger string

const (
	TriggerAdvance Trigger = "advance"
	TriggerTimeUp  Trigger = "time_up"
	TriggerFinish  Trigger = "finish"
)

// Table maps a phase and a trigger to the next phase.
type Table map[Phase]map[Trigger]Phase

// Transition is one edge of a Table.
type Transition struct {
	From    Phase
	Trigger Trigger
	To      Phase
}

// Machine is the phase controller: it owns the current phase and the
// countdown, and resets the countdown on every transition.
type Machine struct {
	table     Table
	durations map[Phase]int
	terminal  Phase
	phase     Phase
	timer     *Countdown

	// OnEnter, if set, runs after each successful transition.
	OnEnter func(from, to Phase)
}

// NewMachine starts in initial with its duration loaded into timer.
// Every non-terminal phase gains a TriggerFinish edge to terminal.
func NewMachine(table Table, durations map[Phase]int, initial, terminal Phase, timer *Countdown) *Machine {
	t := make(Table, len(table))
	for from, edges := range table {
		t[from] = make(map[Trigger]Phase, len(edges)+1)
		for trig, to := range edges {
			t[from][trig] = to
		}
		if from != terminal {
			t[from][TriggerFinish] = terminal
		}
	}

	if timer == nil {
		timer = NewCountdown(nil)
	}

	m := &Machine{
		table:     t,
		durations: durations,
		terminal:  terminal,
		phase:     initial,
		timer:     timer,
	}
	m.enter(initial)

	return m
}

func (m *Machine) Phase() Phase {
	return m.phase
}

func (m *Machine) Timer() *Countdown {
	return m.timer
}

func (m *Machine) Finished() bool {
	return m.phase == m.terminal
}

func (m *Machine) TimeRemaining() int {
	return m.timer.Remaining()
}

// Duration returns the configured seconds for phase; zero means untimed.
func (m *Machine) Duration(phase Phase) int {
	return m.durations[phase]
}

// Can reports whether trigger leads anywhere from the current phase.
func (m *Machine) Can(trigger Trigger) bool {
	if m.Finished() {
		return false
	}

	_, ok := m.table[m.phase][trigger]

	return ok
}

// Fire applies trigger. From the terminal phase, or for a trigger the
// current phase has no edge for, it does nothing and reports false.
func (m *Machine) Fire(trigger Trigger) (Phase, bool) {
	if m.Finished() {
		return m.phase, false
	}

	next, ok := m.table[m.phase][trigger]
	if !ok {
		return m.phase, false
	}

	from := m.phase
	m.phase = next
	m.enter(next)

	if m.OnEnter != nil {
		m.OnEnter(from, next)
	}

	return next, true
}

// Restart re-enters phase without consulting the table, for resets and
// for repeating a timed phase (next player's turn in the same phase).
func (m *Machine) Restart(phase Phase) {
	m.phase = phase
	m.enter(phase)
}

func (m *Machine) enter(phase Phase) {
	if phase == m.terminal {
		m.timer.Stop()
		return
	}

	d := m.durations[phase]
	if d <= 0 {
		m.timer.Stop()
		return
	}

	m.timer.Reset(d)
	m.timer.Start()
}

// Transitions lists every edge in a stable order.
func (m *Machine) Transitions() []Transition {
	var out []Transition
	for from, edges := range m.table {
		for trig, to := range edges {
			out = append(out, Transition{From: from, Trigger: trig, To: to})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].Trigger < out[j].Trigger
	})

	return out
}
