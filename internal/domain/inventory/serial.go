package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSerial deja el serial en mayúsculas y sin espacios en los extremos.
func NormalizeSerial(serial string) string {
	// Un Caser no se comparte entre goroutines.
	return cases.Upper(language.Und).String(strings.TrimSpace(serial))
}

// DuplicateSerials devuelve los seriales (ya normalizados) que aparecen más de una vez,
// en orden de primera repetición.
func DuplicateSerials(serials []string) []string {
	seen := make(map[string]int, len(serials))
	var dups []string
	for _, s := range serials {
		seen[s]++
		if seen[s] == 2 {
			dups = append(dups, s)
		}
	}
	return dups
}
