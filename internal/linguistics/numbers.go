package linguistics

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MaxNumber = 9999
	MinNumber = 0
)

// ErrOutOfRange is returned for numbers outside [MinNumber, MaxNumber].
var ErrOutOfRange = errors.New("number out of range")

// Part labels, from largest to smallest magnitude.
const (
	LabelThousand   = "thousand"
	LabelHundreds   = "hundreds"
	LabelOneHundred = "one hundred"
	LabelTens       = "tens"
	LabelTwenties   = "twenties merged form"
	LabelTeens      = "11–19"
	LabelUnitOrTen  = "unit/ten"
	LabelUnit       = "unit"
)

// Part is one step of a number decomposition.
type Part struct {
	Part    string `json:"part"`
	Meaning string `json:"meaning"`
}

// NumberWords is a number spelled in Spanish plus the steps used to build it.
type NumberWords struct {
	Spanish string `json:"spanish"`
	Parts   []Part `json:"parts"`
}

var (
	unitWords = [10]string{"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	tensWords = [10]string{"", "diez", "veinte", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	teenWords = map[int]string{
		11: "once",
		12: "doce",
		13: "trece",
		14: "catorce",
		15: "quince",
		16: "dieciséis",
		17: "diecisiete",
		18: "dieciocho",
		19: "diecinueve",
	}
	hundredWords = [10]string{"", "ciento", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// Magnitude ranks a part label: 4 thousands, 3 hundreds, 2 tens, 1 units.
// Unknown labels rank 0.
func Magnitude(label string) int {
	switch label {
	case LabelThousand:
		return 4
	case LabelHundreds, LabelOneHundred:
		return 3
	case LabelTens, LabelTwenties, LabelTeens:
		return 2
	case LabelUnit, LabelUnitOrTen:
		return 1
	}
	return 0
}

// NumberToSpanish spells n (0..9999) in Spanish.
func NumberToSpanish(n int) (NumberWords, error) {
	if n < MinNumber || n > MaxNumber {
		return NumberWords{}, fmt.Errorf("%w: %d is outside %d..%d", ErrOutOfRange, n, MinNumber, MaxNumber)
	}

	switch {
	case n == 100:
		return NumberWords{Spanish: "cien", Parts: []Part{{Part: "cien", Meaning: LabelOneHundred}}}, nil
	case n < 10:
		return NumberWords{Spanish: unitWords[n], Parts: []Part{{Part: unitWords[n], Meaning: LabelUnit}}}, nil
	case n > 10 && n < 20:
		return NumberWords{Spanish: teenWords[n], Parts: []Part{{Part: teenWords[n], Meaning: LabelTeens}}}, nil
	}

	var (
		words     []string
		parts     []Part
		remaining = n
	)

	if remaining >= 1000 {
		k := remaining / 1000
		w := "mil"
		if k != 1 {
			w = unitWords[k] + " mil"
		}
		words = append(words, w)
		parts = append(parts, Part{Part: w, Meaning: LabelThousand})
		remaining %= 1000
	}

	if remaining >= 100 {
		h := remaining / 100
		words = append(words, hundredWords[h])
		parts = append(parts, Part{Part: hundredWords[h], Meaning: LabelHundreds})
		remaining %= 100
	}

	switch {
	case remaining >= 20:
		t, u := remaining/10, remaining%10
		if t == 2 && u > 0 {
			w := twenties(u)
			words = append(words, w)
			parts = append(parts, Part{Part: w, Meaning: LabelTwenties})
		} else {
			if u > 0 {
				words = append(words, tensWords[t]+" y "+unitWords[u])
			} else {
				words = append(words, tensWords[t])
			}
			parts = append(parts, Part{Part: tensWords[t], Meaning: LabelTens})
			if u > 0 {
				parts = append(parts, Part{Part: unitWords[u], Meaning: LabelUnit})
			}
		}
	case remaining > 0:
		var w string
		switch {
		case remaining == 10:
			w = "diez"
		case remaining > 10:
			w = teenWords[remaining]
		default:
			w = unitWords[remaining]
		}
		words = append(words, w)
		parts = append(parts, Part{Part: w, Meaning: LabelUnitOrTen})
	}

	return NumberWords{
		Spanish: strings.Join(strings.Fields(strings.Join(words, " ")), " "),
		Parts:   parts,
	}, nil
}

// twenties returns the fused 21..29 form for unit digit u (1..9).
func twenties(u int) string {
	switch u {
	case 1:
		return "veintiún"
	case 2:
		return "veintidós"
	case 3:
		return "veintitrés"
	}
	return "veinti" + unitWords[u]
}
