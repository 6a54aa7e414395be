package parser

import "strings"

// DocumentWidth is the width of a normalized CPF.
const DocumentWidth = 11

// NormalizeDocument strips every non-digit from a document cell and
// left-pads the result with zeros to DocumentWidth characters.
func NormalizeDocument(v interface{}) string {
	raw := CellString(v)

	var b strings.Builder
	b.Grow(DocumentWidth)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < DocumentWidth {
		digits = strings.Repeat("0", DocumentWidth-len(digits)) + digits
	}
	return digits
}

// IsBlankDocument reports whether a normalized document carries no digits
// other than padding.
func IsBlankDocument(doc string) bool {
	return strings.Trim(doc, "0") == ""
}
