package storybuilder

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seednode/icebreakers/engine"
)

func newGame(t *testing.T, opts Options) *Game {
	t.Helper()

	opts.Rand = rand.New(rand.NewSource(42))

	g, err := New([]string{"Ana", "Ben"}, opts)
	require.NoError(t, err)

	return g
}

func TestFinishesAfterMaxRounds(t *testing.T) {
	completed := 0
	g := newGame(t, Options{MaxRounds: 4, OnComplete: func(r Results) {
		completed++
		assert.Len(t, r.Story, 4)
	}})

	sentences := []string{
		"Once upon a time there was a door.",
		"Nobody had opened it in years.",
		"Then a cat pushed it with its nose!",
		"Behind it waited the whole ocean.",
	}

	for i, s := range sentences {
		assert.Equal(t, PhasePlaying, g.Phase(), "before contribution %d", i+1)
		_, err := g.Contribute(g.Active().ID, s)
		require.NoError(t, err)
	}

	assert.Equal(t, PhaseFinished, g.Phase())
	assert.Len(t, g.Story(), 4)
	assert.Equal(t, 1, completed)

	_, err := g.Contribute(g.Active().ID, "One more sentence here.")
	assert.ErrorIs(t, err, engine.ErrWrongPhase)
	assert.Len(t, g.Story(), 4)
}

func TestTurnsAlternate(t *testing.T) {
	g := newGame(t, Options{MaxRounds: 4})
	ps := g.Players()

	assert.Equal(t, ps[0].ID, g.Active().ID)
	_, err := g.Contribute(ps[1].ID, "It was not my turn yet.")
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)

	_, err = g.Contribute(ps[0].ID, "The wind began to howl.")
	require.NoError(t, err)
	assert.Equal(t, ps[1].ID, g.Active().ID)
	assert.Equal(t, 60, g.TimeRemaining())
}

func TestValidateReasons(t *testing.T) {
	assert.Equal(t, []string{"Sentence cannot be empty"}, Validate("   "))
	assert.Contains(t, Validate("Too short."), "Sentence must have at least 3 words")
	assert.Contains(t, Validate("This has no ending punctuation"), "Sentence must end with proper punctuation")
	assert.Contains(t, Validate(strings.Repeat("word ", 51)+"end."), "Sentence must have at most 50 words")
	assert.Empty(t, Validate(`She said "run away!"`))
	assert.Empty(t, Validate("And then… silence…"))
}

func TestContributeRejectsInvalid(t *testing.T) {
	g := newGame(t, Options{})

	_, err := g.Contribute(g.Active().ID, "no punctuation here")
	assert.Equal(t, []string{"Sentence must end with proper punctuation"}, engine.Reasons(err))
	assert.Empty(t, g.Story())
}

func TestScore(t *testing.T) {
	dragon := Element{Category: "character", Word: "dragon"}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"one word", "Hello.", 1},
		{"short", "A cat slept.", 2},
		{"medium", "The old house creaked in the cold night air.", 3},
		{"element", "The dragon slept.", 5},
		{"connectives", "Suddenly the dragon roared, but then it finally slept.", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.text, dragon))
		})
	}
}

func TestScoreBounded(t *testing.T) {
	el := Element{Word: "dragon"}
	inputs := []string{
		"",
		"?",
		strings.Repeat("suddenly meanwhile however because although finally then but whispered until dragon ", 200),
	}

	for _, in := range inputs {
		s := Score(in, el)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, MaxScore)
	}
}

func TestTimeUpPassesTurn(t *testing.T) {
	g := newGame(t, Options{TurnSeconds: 2})
	ps := g.Players()

	g.Tick()
	g.Tick()

	assert.Equal(t, ps[1].ID, g.Active().ID)
	assert.Equal(t, 2, g.TimeRemaining())
	assert.Equal(t, 1, g.Snapshot().Skipped)
	assert.Empty(t, g.Story())

	require.NoError(t, g.Pass(ps[1].ID))
	assert.Equal(t, ps[0].ID, g.Active().ID)
	assert.ErrorIs(t, g.Pass(ps[1].ID), engine.ErrNotYourTurn)
}

func TestElementsDoNotRepeatUntilExhausted(t *testing.T) {
	g := newGame(t, Options{MaxRounds: 100})

	seen := map[Element]bool{}
	for i := 0; i < len(elements); i++ {
		el := g.Element()
		assert.False(t, seen[el], "element %v repeated", el)
		seen[el] = true
		require.NoError(t, g.Pass(g.Active().ID))
	}
}

func TestReviseKeepsHistory(t *testing.T) {
	g := newGame(t, Options{MaxRounds: 4})
	ps := g.Players()

	first, err := g.Contribute(ps[0].ID, "A cat slept.")
	require.NoError(t, err)

	_, err = g.Revise(ps[1].ID, 0, "Not your sentence.")
	assert.ErrorIs(t, err, engine.ErrInvalidTarget)

	_, err = g.Revise(ps[0].ID, 3, "Out of range here.")
	assert.ErrorIs(t, err, engine.ErrInvalidTarget)

	revised, err := g.Revise(ps[0].ID, 0, "A cat slept soundly by the warm kitchen stove.")
	require.NoError(t, err)

	assert.Equal(t, 1, revised.Revision)
	assert.Equal(t, first.Element, revised.Element)
	assert.Equal(t, revised, g.Story()[0])
	require.Len(t, g.Revisions(), 1)
	assert.Equal(t, first, g.Revisions()[0])

	p, _ := g.roster.Get(ps[0].ID)
	assert.Equal(t, revised.Score, p.Score)
}

func TestTextExport(t *testing.T) {
	g := newGame(t, Options{MaxRounds: 2})
	ps := g.Players()

	_, err := g.Contribute(ps[0].ID, "The ship left at dawn.")
	require.NoError(t, err)
	_, err = g.Contribute(ps[1].ID, "Nobody waved goodbye.")
	require.NoError(t, err)

	text := g.Text()
	assert.Contains(t, text, "The ship left at dawn. Nobody waved goodbye.")
	assert.Contains(t, text, "- Ana (")
	assert.Contains(t, text, "- Ben (")
}
