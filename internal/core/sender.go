package core

import "strings"

func isAngleBracket(r rune) bool {
	return r == '<' || r == '>'
}

// ExtractSenderEmail returns the address inside the angle brackets of a From header,
// or the header unchanged when it has no '<'
func ExtractSenderEmail(from string) string {
	if !strings.ContainsRune(from, '<') {
		return from
	}
	// the segment after the first bracket of either kind, up to the next one
	start := strings.IndexFunc(from, isAngleBracket) + 1
	rest := from[start:]
	if end := strings.IndexFunc(rest, isAngleBracket); end >= 0 {
		return rest[:end]
	}
	return rest
}
