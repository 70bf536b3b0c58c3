// Package textstat holds the lexical heuristics used to score free-text
// interview answers. Every function is pure and safe for concurrent use.
package textstat

import (
	"regexp"
	"strings"
)

var (
	wordRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

	resultRe = regexp.MustCompile(`(?i)\d+\s*%` +
		`|\d+\s+(?:seconds?|ms|minutes?|hours?|days?|people|users?)\b` +
		`|\b(?:reduc\w*|increas\w*|improv\w*|sav(?:e|ed|es|ing|ings)|boost\w*)\b`)

	fillerRe = regexp.MustCompile(`(?i)\b(?:um|uh|like|you know|basically|actually)\b`)
)

// ActionVerbs are the verbs that mark a personal action in an answer.
var ActionVerbs = []string{
	"implemented",
	"designed",
	"built",
	"created",
	"led",
	"refactored",
	"optimized",
	"deployed",
	"tested",
	"wrote",
	"improved",
}

var actionRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(ActionVerbs, "|") + `)\b`)

// StopWords are dropped before measuring question/answer overlap.
var StopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "of": {},
	"in": {}, "on": {}, "for": {}, "with": {}, "is": {}, "it": {}, "that": {},
}

// WordCount returns the number of word-like tokens in text.
func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(wordRe.FindAllStringIndex(text, -1))
}

// HasResultPhrase reports whether text mentions a measurable outcome: a
// percentage, a number with a time or people unit, or an impact verb.
func HasResultPhrase(text string) bool {
	return text != "" && resultRe.MatchString(text)
}

// HasActionWords reports whether text contains one of ActionVerbs as a
// whole word.
func HasActionWords(text string) bool {
	return text != "" && actionRe.MatchString(text)
}

// FillerCount counts filler words and phrases such as "um" or "you know".
func FillerCount(text string) int {
	if text == "" {
		return 0
	}
	return len(fillerRe.FindAllStringIndex(text, -1))
}

// ContentWords returns the set of lowercased words in text minus StopWords.
func ContentWords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := StopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// Overlap returns the fraction of question words that also occur in answer,
// along with the number of question words considered. The fraction is zero
// when the question has no content words.
func Overlap(question, answer string) (ratio float64, questionWords int) {
	q := ContentWords(question)
	if len(q) == 0 {
		return 0, 0
	}
	a := ContentWords(answer)
	shared := 0
	for w := range q {
		if _, ok := a[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(q)), len(q)
}
