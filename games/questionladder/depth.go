package questionladder

import (
	"github.com/Seednode/icebreakers/engine"
)

const MaxDepthScore = 10

// Keyword buckets by depth level. A question takes the level of the
// deepest bucket it matches; a question matching none is level 1.
var levels = [...][]string{
	1: {"what", "where", "when", "who", "which", "favorite", "favourite"},
	2: {"how", "describe", "experience", "remember", "tell me about", "story"},
	3: {"why", "believe", "value", "values", "important", "matter", "matters", "meaning", "purpose"},
	4: {"feel", "feeling", "feelings", "afraid", "fear", "hope", "struggle", "proud", "lonely"},
	5: {"regret", "vulnerable", "never told", "secret", "deepest", "ashamed", "forgive", "hardest"},
}

var feedback = []engine.Bucket{
	{Min: 8, Message: "Excellent question!"},
	{Min: 6, Message: "Great depth."},
	{Min: 4, Message: "Good start, try going deeper."},
	{Min: 0, Message: "Try asking something more open-ended."},
}

// Words too common to count as a question building on an answer.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "did": true, "do": true, "does": true,
	"for": true, "from": true, "had": true, "has": true, "have": true, "i": true,
	"in": true, "is": true, "it": true, "me": true, "my": true, "of": true,
	"on": true, "or": true, "so": true, "that": true, "the": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "with": true, "you": true,
	"your": true,
}

// Analysis is the result of scoring one question.
type Analysis struct {
	Level    int    `json:"level"`
	Score    int    `json:"score"`
	FollowUp bool   `json:"follow_up"`
	Feedback string `json:"feedback"`
}

// Level returns the depth level, 1 to 5, of a question; 0 when empty.
func Level(question string) int {
	if len(engine.Words(question)) == 0 {
		return 0
	}

	for level := len(levels) - 1; level > 1; level-- {
		if engine.ContainsAny(question, levels[level]) {
			return level
		}
	}

	return 1
}

// IsFollowUp reports whether question picks up a significant word from
// the previous answer.
func IsFollowUp(question, previousAnswer string) bool {
	prev := make(map[string]bool)
	for _, w := range engine.Words(previousAnswer) {
		if len(w) > 2 && !stopWords[w] {
			prev[w] = true
		}
	}

	for _, w := range engine.Words(question) {
		if prev[w] {
			return true
		}
	}

	return false
}

// Analyze scores a question from 0 to MaxDepthScore: twice its depth
// level, a point for following up on the previous answer, and a point for
// a question of eight or more words.
func Analyze(question, previousAnswer string) Analysis {
	level := Level(question)
	if level == 0 {
		return Analysis{Feedback: engine.Feedback(0, feedback)}
	}

	score := level * 2

	followUp := previousAnswer != "" && IsFollowUp(question, previousAnswer)
	if followUp {
		score++
	}

	if len(engine.Words(question)) >= 8 {
		score++
	}

	score = engine.Clamp(score, 0, MaxDepthScore)

	return Analysis{
		Level:    level,
		Score:    score,
		FollowUp: followUp,
		Feedback: engine.Feedback(score, feedback),
	}
}
