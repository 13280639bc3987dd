// Package linguistics holds the deterministic Spanish helpers used to ground
// model answers: a conjugator, an approximate IPA transcriber and a
// number-to-words converter. Nothing here touches the network.
package linguistics

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persons lists the six grammatical persons in canonical order.
var Persons = [6]string{
	"yo",
	"tú",
	"él/ella/usted",
	"nosotros/as",
	"vosotros/as",
	"ellos/ellas/ustedes",
}

const (
	TensePresent   = "present"
	TensePreterite = "preterite"
)

//go:embed tables.yaml
var tablesYAML []byte

type conjugationTables struct {
	// tense -> group (ar/er/ir) -> six suffixes
	Endings map[string]map[string][]string `yaml:"endings"`
	// verb -> tense -> six forms
	Irregulars map[string]map[string][]string `yaml:"irregulars"`
}

var tables = mustLoadTables(tablesYAML)

func mustLoadTables(raw []byte) conjugationTables {
	var t conjugationTables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		panic(fmt.Sprintf("linguistics: parse tables.yaml: %v", err))
	}
	for tense, groups := range t.Endings {
		for group, suffixes := range groups {
			if len(suffixes) != len(Persons) {
				panic(fmt.Sprintf("linguistics: endings %s/%s has %d entries", tense, group, len(suffixes)))
			}
		}
	}
	for verb, byTense := range t.Irregulars {
		for tense, forms := range byTense {
			if len(forms) != len(Persons) {
				panic(fmt.Sprintf("linguistics: irregular %s/%s has %d entries", verb, tense, len(forms)))
			}
		}
	}
	return t
}

// Row is one (person, form) pair of a conjugation table.
type Row struct {
	Person string `json:"person"`
	Form   string `json:"form"`
}

// Conjugation is either a Note (unsupported input) or a full six-row table.
type Conjugation struct {
	Note  string `json:"note,omitempty"`
	Verb  string `json:"verb,omitempty"`
	Tense string `json:"tense,omitempty"`
	Rows  []Row  `json:"rows,omitempty"`
}

// SupportedTenses returns the tenses present in the ending table, sorted.
func SupportedTenses() []string {
	out := make([]string, 0, len(tables.Endings))
	for tense := range tables.Endings {
		out = append(out, tense)
	}
	sort.Strings(out)
	return out
}

// Endings returns the six suffixes for (tense, group), if known.
func Endings(tense, group string) ([]string, bool) {
	suffixes, ok := tables.Endings[tense][group]
	if !ok {
		return nil, false
	}
	return append([]string(nil), suffixes...), true
}

// IrregularForms returns the stored forms for (verb, tense), if any.
func IrregularForms(verb, tense string) ([]string, bool) {
	forms, ok := tables.Irregulars[verb][tense]
	if !ok {
		return nil, false
	}
	return append([]string(nil), forms...), true
}

// IrregularVerbs returns the verbs of the irregular table, sorted.
func IrregularVerbs() []string {
	out := make([]string, 0, len(tables.Irregulars))
	for verb := range tables.Irregulars {
		out = append(out, verb)
	}
	sort.Strings(out)
	return out
}

// Conjugate conjugates verb in tense. Irregular data always wins over the
// regular -ar/-er/-ir pattern.
func Conjugate(verb, tense string) Conjugation {
	v := strings.ToLower(strings.TrimSpace(verb))
	t := strings.ToLower(strings.TrimSpace(tense))
	if v == "" {
		return Conjugation{Note: "No verb provided."}
	}

	if forms, ok := tables.Irregulars[v][t]; ok {
		return Conjugation{Verb: v, Tense: t, Rows: rowsFrom(forms)}
	}

	group := infinitiveGroup(v)
	if group == "" {
		return Conjugation{Note: "Only infinitives ending in -ar/-er/-ir are supported."}
	}

	suffixes, ok := tables.Endings[t][group]
	if !ok {
		return Conjugation{Note: fmt.Sprintf("Unsupported tense %q. Supported tenses: %s.", t, strings.Join(SupportedTenses(), ", "))}
	}

	stem := v[:len(v)-2]
	rows := make([]Row, len(Persons))
	for i := range Persons {
		rows[i] = Row{Person: Persons[i], Form: RegularForm(stem, suffixes, i)}
	}
	return Conjugation{Verb: v, Tense: t, Rows: rows}
}

// RegularForm is the form for person index i: stem plus the i-th suffix.
func RegularForm(stem string, suffixes []string, i int) string {
	return stem + suffixes[i]
}

func infinitiveGroup(verb string) string {
	for _, group := range []string{"ar", "er", "ir"} {
		if strings.HasSuffix(verb, group) {
			return group
		}
	}
	return ""
}

func rowsFrom(forms []string) []Row {
	rows := make([]Row, len(Persons))
	for i, person := range Persons {
		rows[i] = Row{Person: person, Form: forms[i]}
	}
	return rows
}

// Markdown renders the conjugation as a small table, or the note.
func (c Conjugation) Markdown() string {
	if c.Note != "" {
		return c.Note
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n\n", c.Verb, c.Tense)
	sb.WriteString("| person | form |\n|---|---|\n")
	for _, row := range c.Rows {
		fmt.Fprintf(&sb, "| %s | %s |\n", row.Person, row.Form)
	}
	return sb.String()
}
