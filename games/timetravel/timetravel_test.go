package timetravel

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/icebreakers/engine"
)

func newGame(t *testing.T, names []string, opts Options) *Game {
	t.Helper()

	opts.Rand = rand.New(rand.NewSource(11))

	g, err := New(names, opts)
	require.NoError(t, err)

	return g
}

func TestAssignmentsAreDistinct(t *testing.T) {
	g := newGame(t, []string{"Ana", "Ben", "Cy", "Dee"}, Options{})

	eraSeen := map[string]bool{}
	roleSeen := map[string]bool{}
	for _, p := range g.Players() {
		a, ok := g.Assignment(p.ID)
		require.True(t, ok)
		assert.False(t, eraSeen[a.Era.Name])
		assert.False(t, roleSeen[a.Role])
		eraSeen[a.Era.Name] = true
		roleSeen[a.Role] = true
	}

	assert.NotEmpty(t, g.Scenario())
	assert.Equal(t, PhaseBriefing, g.Phase())
}

func TestFullRound(t *testing.T) {
	completed := 0
	g := newGame(t, []string{"Ana", "Ben", "Cy"}, Options{MaxRounds: 1, OnComplete: func(Results) { completed++ }})
	ps := g.Players()

	require.NoError(t, g.Ready())
	require.Equal(t, PhaseActing, g.Phase())

	_, err := g.Act(ps[1].ID, "I sneak away quietly.")
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)

	_, err = g.Act(ps[0].ID, "hi")
	assert.NotEmpty(t, engine.Reasons(err))

	for _, p := range ps {
		require.Equal(t, p.ID, g.Active().ID)
		_, err := g.Act(p.ID, "I wave politely and ask for directions.")
		require.NoError(t, err)
	}

	require.Equal(t, PhaseVoting, g.Phase())

	assert.ErrorIs(t, g.Vote(ps[0].ID, ps[0].ID), engine.ErrInvalidTarget)
	require.NoError(t, g.Vote(ps[0].ID, ps[1].ID))
	assert.ErrorIs(t, g.Vote(ps[0].ID, ps[2].ID), engine.ErrAlreadyActed)
	require.NoError(t, g.Vote(ps[1].ID, ps[0].ID))
	require.NoError(t, g.Vote(ps[2].ID, ps[1].ID))

	require.Equal(t, PhaseResults, g.Phase())

	rounds := g.Rounds()
	require.Len(t, rounds, 1)
	assert.Len(t, rounds[0].Actions, 3)
	assert.Len(t, rounds[0].Votes, 3)

	byID := map[string]engine.Player{}
	for _, p := range g.Players() {
		byID[p.ID] = p
	}

	// Seven words and no era keywords: accuracy 7, nothing from accuracy/20.
	assert.Equal(t, 2, byID[ps[0].ID].Score)
	assert.Equal(t, 4, byID[ps[1].ID].Score)
	assert.Equal(t, 0, byID[ps[2].ID].Score)

	require.NoError(t, g.Next())
	assert.True(t, g.Finished())
	assert.Equal(t, 1, completed)
}

func TestRoundsAdvanceUntilMax(t *testing.T) {
	g := newGame(t, []string{"Ana", "Ben"}, Options{MaxRounds: 2})
	ps := g.Players()

	seen := map[string]bool{}
	for round := 1; round <= 2; round++ {
		require.Equal(t, PhaseBriefing, g.Phase())
		assert.Equal(t, round, g.Round())
		assert.False(t, seen[g.Scenario()], "scenario repeated")
		seen[g.Scenario()] = true

		require.NoError(t, g.Ready())
		for _, p := range ps {
			_, err := g.Act(p.ID, "I blend in with the crowd.")
			require.NoError(t, err)
		}
		require.NoError(t, g.Vote(ps[0].ID, ps[1].ID))
		require.NoError(t, g.Vote(ps[1].ID, ps[0].ID))
		require.NoError(t, g.Next())
	}

	assert.True(t, g.Finished())
	assert.Len(t, g.Rounds(), 2)
	assert.ErrorIs(t, g.Next(), engine.ErrWrongPhase)
}

func TestTimeoutsFillActionsAndVotes(t *testing.T) {
	g := newGame(t, []string{"Ana", "Ben", "Cy"}, Options{
		MaxRounds:       2,
		BriefingSeconds: 1,
		ActingSeconds:   1,
		VotingSeconds:   1,
		ResultsSeconds:  1,
	})
	ps := g.Players()

	g.Tick()
	require.Equal(t, PhaseActing, g.Phase())

	_, err := g.Act(ps[0].ID, "I build a pyramid by the nile.")
	require.NoError(t, err)
	g.Tick()
	g.Tick()
	require.Equal(t, PhaseVoting, g.Phase())

	require.NoError(t, g.Vote(ps[1].ID, ps[0].ID))
	g.Tick()
	require.Equal(t, PhaseResults, g.Phase())

	round := g.Rounds()[0]
	require.Len(t, round.Actions, 3)
	assert.Empty(t, round.Actions[1].Text)
	assert.Zero(t, round.Actions[1].Accuracy)
	assert.Empty(t, round.Actions[2].Text)

	require.Len(t, round.Votes, 3)
	assert.True(t, round.Votes[0].Random)
	assert.False(t, round.Votes[1].Random)
	assert.True(t, round.Votes[2].Random)
	for _, v := range round.Votes {
		assert.NotEqual(t, v.VoterID, v.TargetID)
	}

	g.Tick()
	assert.Equal(t, PhaseBriefing, g.Phase())
	assert.Equal(t, 2, g.Round())
	assert.Equal(t, ps[0].ID, g.Active().ID)
}

func TestAccuracy(t *testing.T) {
	egypt := eras[0]

	assert.Equal(t, 0, Accuracy("", egypt))
	assert.Equal(t, 68, Accuracy("The pharaoh built a pyramid by the Nile.", egypt))
	assert.Equal(t, 3, Accuracy("I walk away.", egypt))

	long := strings.Repeat(strings.Join(egypt.Keywords, " ")+" ", 50)
	assert.Equal(t, MaxAccuracy, Accuracy(long, egypt))
}

func TestFinishDuringVotingScoresRound(t *testing.T) {
	completed := 0
	g := newGame(t, []string{"Ana", "Ben"}, Options{OnComplete: func(r Results) {
		completed++
		assert.Len(t, r.Rounds, 1)
	}})
	ps := g.Players()

	require.NoError(t, g.Ready())
	for _, p := range ps {
		_, err := g.Act(p.ID, "I tip my hat slowly.")
		require.NoError(t, err)
	}
	require.NoError(t, g.Vote(ps[0].ID, ps[1].ID))

	g.Finish()
	g.Finish()

	assert.True(t, g.Finished())
	assert.Equal(t, 1, completed)
	assert.ErrorIs(t, g.Vote(ps[1].ID, ps[0].ID), engine.ErrWrongPhase)
}

func TestTextExport(t *testing.T) {
	g := newGame(t, []string{"Ana", "Ben"}, Options{MaxRounds: 1})
	ps := g.Players()

	require.NoError(t, g.Ready())
	_, err := g.Act(ps[0].ID, "I bow low to the pharaoh.")
	require.NoError(t, err)
	g.Finish()

	text := g.Text()
	assert.Contains(t, text, "Round 1: "+g.Rounds()[0].Scenario)
	assert.Contains(t, text, "- Ana in ")
	assert.Contains(t, text, "- Ben in ")
	assert.Contains(t, text, "(no action)")
	assert.Contains(t, text, "Standings:")
}
