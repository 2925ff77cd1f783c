package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold and link", "**Done!** Check [here](http://x.com)", "Done! Check here"},
		{"bare url", "http://x.com", "link"},
		{"underscore bold", "__Very__ important", "Very important"},
		{"italics", "*soft* and _quiet_", "soft and quiet"},
		{"inline code", "Run `make test` now", "Run make test now"},
		{"heading", "## Today's list", "Today's list"},
		{"list markers", "- Buy milk\n* Call mom", "Buy milk\nCall mom"},
		{"url in sentence", "See https://example.com/docs for more", "See link for more"},
		{"whitespace trimmed", "   Namaste!  \n", "Namaste!"},
		{"plain text untouched", "Ho gaya add!", "Ho gaya add!"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanForSpeech(tt.in))
		})
	}
}
