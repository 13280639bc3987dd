package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

// wordsPattern matches any of alts as a whole word. RE2's \b only knows
// ASCII letters, which breaks on words such as "tú", so letter boundaries
// are spelled out with \p{L}.
func wordsPattern(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(alts, "|") + `)(?:[^\p{L}\p{N}]|$)`)
}

type intentRule struct {
	tag     domain.IntentTag
	matches func(q string) bool
}

var (
	grammarWords = wordsPattern(
		`conjugat\p{L}*`, `grammar`, `tenses?`, `pronouns?`, `verbs?`,
		`preterite`, `pret[eé]rito`, `imperfect`, `subjunctive`, `infinitives?`,
		`ser`, `estar`, `articles?`, `gender`, `plurals?`, `masculine`, `feminine`,
		`nosotros`, `vosotros`, `yo`, `tú`, `usted(?:es)?`, `ellos`, `ellas`,
		`comes after`, `comes before`,
	)
	pronunciationWords = wordsPattern(
		`pronounc\p{L}*`, `pronunciation`, `sounds?`, `accents?`, `ipa`,
		`stress(?:ed)?`, `syllables?`, `rolled`, `trill`,
		// Letters asked about on their own, as in "how do I say é".
		`[ñüáéíóú]`, `ll`, `rr`,
	)
	numberOnly  = regexp.MustCompile(`^[\s#]*\d[\d\s.,]*\??\s*$`)
	numberSay   = regexp.MustCompile(`(?i)(?:say|write|spell|count|read)\b[^\d]*\d+`)
	numberWords = wordsPattern(`numbers?`, `n[uú]meros?`, `digits?`)
	lookupWords = wordsPattern(
		`mean(?:s|ing|ings)?`, `etymolog\p{L}*`, `origins?`, `break\s+down`,
		`morpholog\p{L}*`, `roots?`, `prefix(?:es)?`, `suffix(?:es)?`,
		`define`, `definition`, `translat\p{L}*`,
	)
)

// intentRules is evaluated in order and the first match wins. The tests
// overlap on purpose, so reordering changes results.
var intentRules = []intentRule{
	{domain.IntentGrammar, grammarWords.MatchString},
	{domain.IntentPronunciation, pronunciationWords.MatchString},
	{domain.IntentNumber, func(q string) bool {
		return numberOnly.MatchString(q) || numberSay.MatchString(q) || numberWords.MatchString(q)
	}},
	{domain.IntentWordLookup, func(q string) bool {
		return lookupWords.MatchString(q) || isSingleToken(q)
	}},
}

func isSingleToken(q string) bool {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return len(fields) == 1
}

// Classify tags a question. It is total: anything unmatched is GENERAL.
func Classify(q string) domain.IntentTag {
	for _, rule := range intentRules {
		if rule.matches(q) {
			return rule.tag
		}
	}
	return domain.IntentGeneral
}

var intentInstructions = map[domain.IntentTag]string{
	domain.IntentGrammar: "Explain the grammar point step by step for a beginner. " +
		"If a verb is involved, call conjugate_verb for the exact forms and show them in a small table.",
	domain.IntentPronunciation: "Explain how to pronounce this in plain English (mouth and tongue position). " +
		"Call spanish_ipa for an approximate transcription, then give minimal pairs and a simple mnemonic.",
	domain.IntentNumber: "Write the number in Spanish words. " +
		"Call number_to_spanish and show its parts in a small decomposition table.",
	domain.IntentWordLookup: "Give a structured lexical breakdown of the word: meaning, part of speech, " +
		"pronunciation, morphology, etymology and two example sentences. Finish with a small table of its parts.",
}

// Augment prefixes the question with its tag and a tag-specific
// instruction. GENERAL questions pass through untouched.
func Augment(q domain.Question, tag domain.IntentTag) domain.AugmentedPrompt {
	instruction, ok := intentInstructions[tag]
	if !ok {
		return domain.AugmentedPrompt{Tag: domain.IntentGeneral, Question: q, Text: q.String()}
	}
	return domain.AugmentedPrompt{
		Tag:         tag,
		Instruction: instruction,
		Question:    q,
		Text:        fmt.Sprintf("[%s] %s\n\nQuestion: %s", tag, instruction, q),
	}
}
