package questionladder

import "fmt"

// Vulnerability picks how personal the suggested questions get.
type Vulnerability string

const (
	VulnerabilityLow    Vulnerability = "low"
	VulnerabilityMedium Vulnerability = "medium"
	VulnerabilityHigh   Vulnerability = "high"
)

func ParseVulnerability(s string) (Vulnerability, error) {
	switch v := Vulnerability(s); v {
	case VulnerabilityLow, VulnerabilityMedium, VulnerabilityHigh:
		return v, nil
	case "":
		return VulnerabilityLow, nil
	default:
		return "", fmt.Errorf("unknown vulnerability level %q", s)
	}
}

var prompts = map[Vulnerability][]string{
	VulnerabilityLow: {
		"What is your favorite way to spend a weekend?",
		"Where would you travel tomorrow if you could?",
		"What was the best meal you have ever had?",
		"Who was your favorite mentor growing up?",
		"How did you end up living where you live now?",
	},
	VulnerabilityMedium: {
		"Why did you choose the work you do?",
		"What value do you hold that others might not expect?",
		"How has a friendship changed the way you see the world?",
		"Why does your favorite hobby matter so much to you?",
		"What belief have you changed your mind about?",
	},
	VulnerabilityHigh: {
		"What is something you feel proud of but rarely share?",
		"What is the hardest thing you have had to forgive?",
		"When did you last feel truly lonely, and what helped?",
		"What is a regret that still shapes your choices?",
		"What fear has held you back the most?",
	},
}
