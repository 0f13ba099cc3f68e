package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLen is the filename length cap used when the caller passes 0.
const DefaultMaxLen = 90

// Fallback replaces captions that sanitize down to nothing.
const Fallback = "sans_legende"

var (
	// Punctuation that is unsafe in filesystem paths on at least one platform.
	blockRe = regexp.MustCompile("[\\\\/:*?\"<>|#%&{}$!'@`+=~]")
	// Conservative allow-list: word characters, whitespace, hyphen, period,
	// parentheses and brackets. Anything else is dropped.
	allowRe = regexp.MustCompile(`[^\w\s\-.()\[\]]`)

	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// Filename converts arbitrary caption text into a filesystem-safe string:
// whitespace runs collapse to single spaces, diacritics are stripped, unsafe
// punctuation removed, and the result is capped at maxLen. Deterministic and
// idempotent; never returns an empty string.
func Filename(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	if folded, _, err := transform.String(asciiFold, text); err == nil {
		text = folded
	}
	text = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, text)

	text = blockRe.ReplaceAllString(text, "")
	text = allowRe.ReplaceAllString(text, "")

	// Collapse after the character filters so removed punctuation cannot
	// leave double spaces behind.
	text = strings.Join(strings.Fields(text), " ")

	if len(text) > maxLen {
		text = strings.TrimRight(text[:maxLen], " \t")
	}

	if text == "" {
		return Fallback
	}
	return text
}
