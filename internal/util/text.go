package util

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/studychannel/studychannel/internal/constant"
)

var strictPolicy = bluemonday.StrictPolicy()

// NormalizeAuthorName strips markup from a display name and falls back to
// the anonymous label.
func NormalizeAuthorName(name string) string {
	name = strings.TrimSpace(strictPolicy.Sanitize(name))
	if name == "" {
		return constant.DEFAULT_AUTHOR_NAME
	}

	return name
}

// Truncate cuts s to at most max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max]) + "…"
}

// Snippet collapses whitespace and truncates for single-line banners.
func Snippet(s string) string {
	return Truncate(strings.Join(strings.Fields(s), " "), constant.SNIPPET_MAX_RUNES)
}
