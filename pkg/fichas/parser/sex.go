// Package parser normalizes the spreadsheet's free-text cells. Sex is
// classified feminine-first, so values such as "FEMININO" that also
// contain an "M" never fall through to the male letter rule.
package parser

import (
	"strings"
	"unicode"

	"github.com/ukaji3/fichas-go/pkg/fichas/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Feminine tokens are checked first: "FEMININO" contains an "M".
var (
	feminineTokens  = []string{"FEMININO", "FEM", "MULHER"}
	masculineTokens = []string{"MASCULINO", "MASC", "HOMEM"}
)

// foldAccents upper-cases s and removes combining marks.
func foldAccents(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// ClassifySex maps the free-text sex column to male, female or unknown.
func ClassifySex(s string) models.Sex {
	v := foldAccents(s)
	if v == "" {
		return models.SexUnknown
	}
	for _, tok := range feminineTokens {
		if strings.Contains(v, tok) {
			return models.SexFemale
		}
	}
	for _, tok := range masculineTokens {
		if strings.Contains(v, tok) {
			return models.SexMale
		}
	}
	switch {
	case strings.Contains(v, "M"):
		return models.SexMale
	case strings.Contains(v, "F"):
		return models.SexFemale
	}
	return models.SexUnknown
}
