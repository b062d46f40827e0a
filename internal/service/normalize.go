package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText trims s and puts it in Unicode NFC so visually equal names
// compare and search equal.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
