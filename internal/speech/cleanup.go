// Package speech turns model replies into audio and dictated audio into
// text. Both directions use Gemini; recording and playback are delegated to
// external programs such as arecord and aplay.
package speech

import (
	"regexp"
	"strings"
)

// speechRewrite is one markdown construct and what replaces it.
type speechRewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: bold before italic, links before bare URLs.
var speechRewrites = []speechRewrite{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`__(.*?)__`), "$1"},
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},
	{regexp.MustCompile(`_(.*?)_`), "$1"},
	{regexp.MustCompile("`([^`]+)`"), "$1"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*(#{1,6}|[*-])[ \t]+`), ""},
	{regexp.MustCompile(`https?://[^\s]+`), "link"},
}

// CleanForSpeech strips markdown emphasis, inline code and link syntax,
// drops heading and list markers, and replaces bare URLs with "link" so
// the text reads naturally aloud.
func CleanForSpeech(text string) string {
	for _, rw := range speechRewrites {
		text = rw.pattern.ReplaceAllString(text, rw.replacement)
	}
	return strings.TrimSpace(text)
}
