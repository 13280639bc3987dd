package linguistics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConjugate_IrregularTableWins(t *testing.T) {
	for _, verb := range IrregularVerbs() {
		for _, tense := range []string{TensePresent, TensePreterite} {
			t.Run(verb+"_"+tense, func(t *testing.T) {
				want, ok := IrregularForms(verb, tense)
				require.True(t, ok)

				got := Conjugate(verb, tense)
				require.Empty(t, got.Note)
				require.Len(t, got.Rows, len(Persons))
				for i, row := range got.Rows {
					assert.Equal(t, Persons[i], row.Person)
					assert.Equal(t, want[i], row.Form)
				}
			})
		}
	}
}

func TestConjugate_RegularFormsAreStemPlusEnding(t *testing.T) {
	verbs := map[string]string{
		"hablar":   "ar",
		"caminar":  "ar",
		"comer":    "er",
		"aprender": "er",
		"vivir":    "ir",
		"escribir": "ir",
	}

	for verb, group := range verbs {
		for _, tense := range SupportedTenses() {
			t.Run(verb+"_"+tense, func(t *testing.T) {
				endings, ok := Endings(tense, group)
				require.True(t, ok)
				stem := verb[:len(verb)-2]

				got := Conjugate(verb, tense)
				require.Len(t, got.Rows, 6)
				for i := range Persons {
					assert.Equal(t, stem+endings[i], got.Rows[i].Form, "person %d", i)
				}
			})
		}
	}
}

func TestConjugate_HablarPreterite(t *testing.T) {
	got := Conjugate("hablar", "preterite")

	want := []Row{
		{Person: "yo", Form: "hablé"},
		{Person: "tú", Form: "hablaste"},
		{Person: "él/ella/usted", Form: "habló"},
		{Person: "nosotros/as", Form: "hablamos"},
		{Person: "vosotros/as", Form: "hablasteis"},
		{Person: "ellos/ellas/ustedes", Form: "hablaron"},
	}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "hablar", got.Verb)
	assert.Equal(t, "preterite", got.Tense)
}

func TestConjugate_NormalizesInput(t *testing.T) {
	got := Conjugate("  COMER ", " Present ")
	require.Empty(t, got.Note)
	assert.Equal(t, "como", got.Rows[0].Form)
	assert.Equal(t, "comen", got.Rows[5].Form)
}

func TestConjugate_Notes(t *testing.T) {
	tests := []struct {
		name  string
		verb  string
		tense string
		note  string
	}{
		{"empty verb", "   ", "present", "No verb provided."},
		{"not an infinitive", "casa", "present", "Only infinitives ending in -ar/-er/-ir are supported."},
		{"unknown tense", "hablar", "future", `Unsupported tense "future". Supported tenses: present, preterite.`},
		{"irregular with unknown tense falls through", "ser", "future", `Unsupported tense "future". Supported tenses: present, preterite.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Conjugate(tt.verb, tt.tense)
			assert.Equal(t, tt.note, got.Note)
			assert.Empty(t, got.Rows)
		})
	}
}

func TestConjugation_Markdown(t *testing.T) {
	md := Conjugate("vivir", "present").Markdown()
	assert.Contains(t, md, "vivir (present)")
	assert.Contains(t, md, "| yo | vivo |")
	assert.Contains(t, md, "| vosotros/as | vivís |")

	assert.Equal(t, "No verb provided.", Conjugate("", "present").Markdown())
}
