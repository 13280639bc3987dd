package linguistics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Phonetic is an approximate, unstressed IPA rendering of a word.
type Phonetic struct {
	IPA  string `json:"ipa"`
	Note string `json:"note,omitempty"`
}

type phoneticRule struct {
	name  string
	apply func(string) string
}

func replaceRule(pattern, repl string) phoneticRule {
	re := regexp.MustCompile(pattern)
	return phoneticRule{name: pattern, apply: func(s string) string {
		return re.ReplaceAllString(s, repl)
	}}
}

// phoneticRules is applied strictly in order. Digraphs come before the
// single letters that would otherwise consume half of them.
var phoneticRules = []phoneticRule{
	replaceRule(`ch`, "t͡ʃ"),
	replaceRule(`ll`, "ʝ"),
	replaceRule(`rr`, "r"),
	{name: `r(?=[bdgvlrmn])`, apply: tapBeforeConsonant},
	replaceRule(`r`, "r"),
	replaceRule(`ñ`, "ɲ"),
	replaceRule(`j`, "x"),
	replaceRule(`gü`, "ɡw"),
	replaceRule(`gue`, "ɡe"),
	replaceRule(`gui`, "ɡi"),
	replaceRule(`qu`, "k"),
	replaceRule(`c([ei])`, "θ${1}"),
	replaceRule(`c`, "k"),
	replaceRule(`z`, "θ"),
	replaceRule(`v`, "b"),
	replaceRule(`h`, ""),
	replaceRule(`y`, "ʝ"),
	replaceRule(`x`, "ks"),
}

// tapBeforeConsonant turns r into ɾ when the next rune is one of
// b d g v l r m n. RE2 has no lookahead, so the scan is done by hand.
func tapBeforeConsonant(s string) string {
	rs := []rune(s)
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] != 'r' {
			continue
		}
		switch rs[i+1] {
		case 'b', 'd', 'g', 'v', 'l', 'r', 'm', 'n':
			rs[i] = 'ɾ'
		}
	}
	return string(rs)
}

// vowelMap is intentionally the identity; it is where vowel quality would be
// refined.
var vowelMap = map[rune]rune{
	'a': 'a',
	'e': 'e',
	'i': 'i',
	'o': 'o',
	'u': 'u',
}

// stressMarks are stripped before the rules run. The tilde of ñ and the
// diaeresis of ü are kept so their rules can still match.
var stressMarks = runes.Predicate(func(r rune) bool {
	return r == '\u0301' || r == '\u0300'
})

func stripStress(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(stressMarks), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ToApproximateIPA transcribes word with a fixed list of grapheme rules.
// No stress is marked.
func ToApproximateIPA(word string) Phonetic {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return Phonetic{IPA: "", Note: "No word provided."}
	}

	s := stripStress(w)
	for _, rule := range phoneticRules {
		s = rule.apply(s)
	}

	var sb strings.Builder
	sb.Grow(utf8.RuneCountInString(s) + 2)
	for _, r := range s {
		if v, ok := vowelMap[r]; ok {
			r = v
		}
		sb.WriteRune(r)
	}
	return Phonetic{IPA: "/" + sb.String() + "/"}
}
