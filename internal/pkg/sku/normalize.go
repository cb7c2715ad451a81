package sku

import "strings"

// Normalize canonicalizes a storefront SKU before the plan mapping lookup.
// Catalog exports occasionally carry zero-width characters and stray
// whitespace; commas appear where plan names were pasted from spreadsheets.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			// zero-width characters are dropped entirely
		case ',':
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(strings.TrimSpace(b.String()))
}
