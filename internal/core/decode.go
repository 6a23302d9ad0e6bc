package core

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var urlAlphabet = strings.NewReplacer("-", "+", "_", "/")

// DecodeBase64URL decodes a URL-safe base64 string, with or without padding, into text.
// Invalid UTF-8 in the decoded bytes is replaced with U+FFFD.
func DecodeBase64URL(data string) (string, error) {
	if data == "" {
		return "", nil
	}

	std := urlAlphabet.Replace(data)
	switch len(std) % 4 {
	case 2:
		std += "=="
	case 3:
		std += "="
	case 1:
		return "", fmt.Errorf("%w: invalid length %d", ErrDecode, len(data))
	}

	raw, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	text, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(text), nil
}
