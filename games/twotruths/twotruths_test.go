package twotruths

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/icebreakers/engine"
)

func statements(prefix string) []string {
	return []string{prefix + " one", prefix + " two", prefix + " three"}
}

func newGame(t *testing.T, opts Options) (*Game, []engine.Player) {
	t.Helper()

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}

	g, err := New([]string{"A", "B", "C"}, opts)
	require.NoError(t, err)

	return g, g.Players()
}

func TestLiarDetectedFixture(t *testing.T) {
	completed := 0
	var final Results

	g, ps := newGame(t, Options{OnComplete: func(r Results) {
		completed++
		final = r
	}})
	a, b, c := ps[0], ps[1], ps[2]

	require.NoError(t, g.Submit(a.ID, statements("a"), 1))
	require.NoError(t, g.Submit(b.ID, statements("b"), 0))
	assert.Equal(t, PhaseWriting, g.Phase())
	require.NoError(t, g.Submit(c.ID, statements("c"), 2))

	require.Equal(t, PhaseGuessing, g.Phase())
	assert.Equal(t, a.ID, g.Presenter().ID)

	require.NoError(t, g.Guess(b.ID, 1))
	require.NoError(t, g.Guess(c.ID, 0))

	require.Equal(t, PhaseReveal, g.Phase())
	assert.Equal(t, 1, g.Detected(a.ID))

	round := g.Rounds()[0]
	assert.Equal(t, a.ID, round.PresenterID)
	require.Len(t, round.Guesses, 2)
	assert.True(t, round.Guesses[0].Correct)
	assert.False(t, round.Guesses[1].Correct)

	scores := map[string]int{}
	for _, p := range g.Players() {
		scores[p.ID] = p.Score
	}
	assert.Equal(t, 1, scores[a.ID], "B caught A's lie")
	assert.Zero(t, scores[b.ID])
	assert.Zero(t, scores[c.ID])

	require.NoError(t, g.Next())
	require.Equal(t, PhaseGuessing, g.Phase())
	assert.Equal(t, b.ID, g.Presenter().ID)
	require.NoError(t, g.Guess(a.ID, 0))
	require.NoError(t, g.Guess(c.ID, 0))
	require.NoError(t, g.Next())

	assert.Equal(t, c.ID, g.Presenter().ID)
	require.NoError(t, g.Guess(a.ID, 1))
	require.NoError(t, g.Guess(b.ID, 2))
	require.NoError(t, g.Next())

	assert.True(t, g.Finished())
	assert.Equal(t, 1, completed)
	assert.Len(t, final.Rounds, 3)
	assert.Equal(t, 1, final.Detected[a.ID])
	assert.Equal(t, 2, final.Detected[b.ID])
	assert.Equal(t, 1, final.Detected[c.ID])

	for _, p := range final.Standings {
		assert.Equal(t, final.Detected[p.ID], p.Score, p.Name)
	}

	g.Finish()
	assert.Equal(t, 1, completed)
}

func TestScoreEqualsDetected(t *testing.T) {
	g, ps := newGame(t, Options{})
	a, b, c := ps[0], ps[1], ps[2]

	require.NoError(t, g.Submit(a.ID, statements("a"), 1))
	require.NoError(t, g.Submit(b.ID, statements("b"), 2))
	require.NoError(t, g.Submit(c.ID, statements("c"), 0))

	// Nobody catches A.
	require.NoError(t, g.Guess(b.ID, 0))
	require.NoError(t, g.Guess(c.ID, 0))
	require.NoError(t, g.Next())

	// Both catch B.
	require.NoError(t, g.Guess(a.ID, 2))
	require.NoError(t, g.Guess(c.ID, 2))
	require.NoError(t, g.Next())

	// One of two catches C.
	require.NoError(t, g.Guess(a.ID, 1))
	require.NoError(t, g.Guess(b.ID, 0))
	require.NoError(t, g.Next())

	require.True(t, g.Finished())

	want := map[string]int{a.ID: 0, b.ID: 2, c.ID: 1}
	for _, p := range g.Players() {
		assert.Equal(t, want[p.ID], g.Detected(p.ID), p.Name)
		assert.Equal(t, g.Detected(p.ID), p.Score, p.Name)
	}
}

func TestGuessRules(t *testing.T) {
	g, ps := newGame(t, Options{})
	a, b := ps[0], ps[1]

	assert.ErrorIs(t, g.Guess(b.ID, 0), engine.ErrWrongPhase)

	for _, p := range ps {
		require.NoError(t, g.Submit(p.ID, statements(p.Name), 0))
	}

	assert.ErrorIs(t, g.Guess(a.ID, 0), engine.ErrInvalidTarget)
	assert.ErrorIs(t, g.Guess("nobody", 0), engine.ErrUnknownPlayer)
	assert.NotEmpty(t, engine.Reasons(g.Guess(b.ID, 5)))

	require.NoError(t, g.Guess(b.ID, 2))
	assert.ErrorIs(t, g.Guess(b.ID, 1), engine.ErrAlreadyActed)
}

func TestSubmitValidation(t *testing.T) {
	g, ps := newGame(t, Options{})

	err := g.Submit(ps[0].ID, []string{"ok one", "", "ok one"}, 3)
	reasons := engine.Reasons(err)
	assert.Contains(t, reasons, "Mark one statement as the lie")
	assert.Contains(t, reasons, "Statement 2 is empty")
	assert.Contains(t, reasons, "Statement 3 repeats an earlier one")

	err = g.Submit(ps[0].ID, []string{"ab", "fine", "also fine"}, 0)
	assert.Contains(t, engine.Reasons(err), "Statement 1 is too short")

	err = g.Submit(ps[0].ID, []string{"only", "two"}, 0)
	assert.Contains(t, engine.Reasons(err), "Exactly 3 statements are required")

	assert.Equal(t, PhaseWriting, g.Phase())
	assert.Empty(t, g.Snapshot().Submitted)
}

func TestGuessTimeoutFillsRandomGuesses(t *testing.T) {
	g, ps := newGame(t, Options{GuessingSeconds: 2})

	for _, p := range ps {
		require.NoError(t, g.Submit(p.ID, statements(p.Name), 1))
	}
	require.NoError(t, g.Guess(ps[1].ID, 1))

	g.Tick()
	assert.Equal(t, PhaseGuessing, g.Phase())
	g.Tick()
	require.Equal(t, PhaseReveal, g.Phase())

	round := g.Rounds()[0]
	require.Len(t, round.Guesses, 2)
	assert.False(t, round.Guesses[0].Random)
	assert.True(t, round.Guesses[1].Random)
	assert.Equal(t, ps[2].ID, round.Guesses[1].PlayerID)
}

func TestWritingTimeoutSkipsSilentPlayers(t *testing.T) {
	g, ps := newGame(t, Options{WritingSeconds: 1})

	require.NoError(t, g.Submit(ps[1].ID, statements("b"), 2))
	g.Tick()

	require.Equal(t, PhaseGuessing, g.Phase())
	assert.Equal(t, ps[1].ID, g.Presenter().ID)

	require.NoError(t, g.Guess(ps[0].ID, 2))
	require.NoError(t, g.Guess(ps[2].ID, 2))
	require.NoError(t, g.Next())

	assert.True(t, g.Finished())
	assert.Equal(t, 2, g.Detected(ps[1].ID))
}

func TestWritingTimeoutWithNoEntriesFinishes(t *testing.T) {
	g, _ := newGame(t, Options{WritingSeconds: 1})
	g.Tick()

	assert.True(t, g.Finished())
	assert.Zero(t, g.TimeRemaining())

	g.Tick()
	assert.True(t, g.Finished())
}

func TestSnapshotHidesLieUntilReveal(t *testing.T) {
	g, ps := newGame(t, Options{})

	for _, p := range ps {
		require.NoError(t, g.Submit(p.ID, statements(p.Name), 1))
	}

	snap := g.Snapshot()
	assert.Equal(t, ps[0].ID, snap.Presenter)
	assert.Nil(t, snap.LastRound)
	assert.Equal(t, "A one", snap.Statements[0])

	require.NoError(t, g.Guess(ps[1].ID, 1))
	require.NoError(t, g.Guess(ps[2].ID, 1))

	snap = g.Snapshot()
	require.NotNil(t, snap.LastRound)
	assert.Equal(t, 1, snap.LastRound.LieIndex)
}

func TestResetClearsHistory(t *testing.T) {
	g, ps := newGame(t, Options{})

	for _, p := range ps {
		require.NoError(t, g.Submit(p.ID, statements(p.Name), 1))
	}
	require.NoError(t, g.Guess(ps[1].ID, 1))
	require.NoError(t, g.Guess(ps[2].ID, 1))

	g.Reset()

	assert.Equal(t, PhaseWriting, g.Phase())
	assert.Empty(t, g.Rounds())
	assert.Zero(t, g.Detected(ps[0].ID))
	for _, p := range g.Players() {
		assert.Zero(t, p.Score)
	}
}

func TestPauseHoldsTimer(t *testing.T) {
	g, _ := newGame(t, Options{WritingSeconds: 5})

	g.Pause()
	g.Tick()
	assert.Equal(t, 5, g.TimeRemaining())

	g.Resume()
	g.Tick()
	assert.Equal(t, 4, g.TimeRemaining())
}

func TestTextMarksTheLie(t *testing.T) {
	g, ps := newGame(t, Options{})

	for _, p := range ps {
		require.NoError(t, g.Submit(p.ID, statements(p.Name), 2))
	}
	require.NoError(t, g.Guess(ps[1].ID, 2))
	require.NoError(t, g.Guess(ps[2].ID, 0))

	text := g.Text()
	assert.Contains(t, text, "\nA:\n")
	assert.Contains(t, text, " * 3. A three\n")
	assert.Contains(t, text, "   1. A one\n")
	assert.Contains(t, text, "1 of 2 spotted the lie")
	assert.Contains(t, text, "Standings:")
}
