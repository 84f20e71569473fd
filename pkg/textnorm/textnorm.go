// Package textnorm normaliza texto para búsquedas y encabezados sin tildes ni mayúsculas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s sin marcas diacríticas, en minúsculas y sin espacios sobrantes.
// "  Tóner NEGRO " → "toner negro".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.Join(strings.Fields(out), " "))
}

// SearchKey clave de búsqueda de un ítem (nombre + serie).
func SearchKey(name, series string) string {
	return Fold(name + " " + series)
}

// Contains indica si haystack contiene needle tras normalizar ambos.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
