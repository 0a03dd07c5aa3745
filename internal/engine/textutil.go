package engine

import (
	"html"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"github.com/microcosm-cc/bluemonday"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoDigest/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanHTML strips HTML tags, decodes entities and trims whitespace.
// Only real tags are removed: escaped text such as "&lt;div&gt;" is decoded
// after sanitizing and kept. Captions are often double-escaped (&amp;#39;),
// hence the second unescape.
func CleanHTML(s string) string {
	s = strictPolicy.Sanitize(s)
	s = html.UnescapeString(html.UnescapeString(s))
	return strings.TrimSpace(s)
}

// CollapseSpaces replaces every whitespace run with a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
