package pets

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// AgeUnit es la unidad de la edad.
// @Enum years, months
type AgeUnit string

const (
	AgeYears  AgeUnit = "years"
	AgeMonths AgeUnit = "months"
)

var errAgeFormat = errors.New(`must look like "2 años" or "6 meses"`)

// Age es la edad estructurada. El texto ("2 años") se deriva con String().
type Age struct {
	Value int
	Unit  AgeUnit
	// Text guarda el texto de registros viejos que no se pudo interpretar ("Cachorro").
	// Solo se usa si Unit está vacío.
	Text string
}

// LegacyAge envuelve un texto libre que ParseAge no acepta.
func LegacyAge(text string) Age {
	return Age{Text: strings.TrimSpace(text)}
}

// ParseAge acepta "2 años", "1 año", "6 meses", "2 years", "3m" o un número solo (años).
func ParseAge(s string) (Age, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Age{}, errAgeFormat
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Age{}, errAgeFormat
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil || n > 600 {
		return Age{}, errAgeFormat
	}

	unit := strings.TrimFunc(s[i:], func(r rune) bool { return unicode.IsSpace(r) || r == '.' })
	switch unit {
	case "", "a", "y", "año", "años", "ano", "anos", "year", "years":
		return Age{Value: n, Unit: AgeYears}, nil
	case "m", "mes", "meses", "month", "months":
		return Age{Value: n, Unit: AgeMonths}, nil
	default:
		return Age{}, errAgeFormat
	}
}

// ParseAgeUnit valida una unidad explícita.
func ParseAgeUnit(s string) (AgeUnit, bool) {
	switch AgeUnit(strings.ToLower(strings.TrimSpace(s))) {
	case AgeYears:
		return AgeYears, true
	case AgeMonths:
		return AgeMonths, true
	}
	return "", false
}

func (a Age) String() string {
	if a.Unit == "" {
		return a.Text
	}
	n := strconv.Itoa(a.Value)
	if a.Unit == AgeMonths {
		if a.Value == 1 {
			return n + " mes"
		}
		return n + " meses"
	}
	if a.Value == 1 {
		return n + " año"
	}
	return n + " años"
}

// InMonths sirve para ordenar/comparar edades con unidades distintas.
func (a Age) InMonths() int {
	if a.Unit == AgeMonths {
		return a.Value
	}
	return a.Value * 12
}
