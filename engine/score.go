/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

import (
	"strings"
	"unicode"
)

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Words splits text into lowercase words with surrounding punctuation
// removed. Apostrophes inside words are kept.
func Words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}

// Normalize lowercases text and collapses every run of non-word
// characters to a single space, padded at both ends, so phrases can be
// matched on word boundaries with strings.Contains.
func Normalize(text string) string {
	return " " + strings.Join(Words(text), " ") + " "
}

// HasPhrase reports whether the normalized text contains phrase as whole words.
func HasPhrase(normalized, phrase string) bool {
	return strings.Contains(normalized, Normalize(phrase))
}

// ContainsAny reports whether text contains any of the keywords as whole
// words or phrases.
func ContainsAny(text string, keywords []string) bool {
	return CountMatches(text, keywords) > 0
}

// CountMatches returns how many distinct keywords appear in text.
func CountMatches(text string, keywords []string) int {
	n := Normalize(text)

	count := 0
	for _, k := range keywords {
		if HasPhrase(n, k) {
			count++
		}
	}

	return count
}

// Bucket is one tier of qualitative feedback.
type Bucket struct {
	Min     int
	Message string
}

// Feedback returns the message of the first bucket whose Min the score
// meets. Buckets are expected highest first; the last one is the fallback.
func Feedback(score int, buckets []Bucket) string {
	for _, b := range buckets {
		if score >= b.Min {
			return b.Message
		}
	}

	if len(buckets) == 0 {
		return ""
	}

	return buckets[len(buckets)-1].Message
}
