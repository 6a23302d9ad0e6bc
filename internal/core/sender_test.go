package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSenderEmail(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"Jane Doe <jane@x.com>", "jane@x.com"},
		{"jane@x.com", "jane@x.com"},
		{"<jane@x.com>", "jane@x.com"},
		{"Jane <jane@x.com", "jane@x.com"},
		{"\"Shop\" <deals@shop.example> (promo)", "deals@shop.example"},
		{"a > b <c@d.com>", " b "},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractSenderEmail(tt.from), "from %q", tt.from)
	}
}
