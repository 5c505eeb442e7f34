// Package summarizer shortens long free text to a bounded length by keeping
// whole leading sentences.
package summarizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLength is the summary bound used when none is configured.
const DefaultMaxLength = 200

// sentenceBreak matches ". " or "; " (any run of whitespace after the
// mark), "- " and line breaks. Whitespace is the same set isSpace accepts.
var sentenceBreak = regexp.MustCompile(`[.;][\s\v\x1c-\x1f\x{85}\p{Z}]+|- |\n`)

// isSpace reports Unicode White_Space plus the ASCII separators
// U+001C..U+001F, which scraped text also uses as blanks.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Segments splits text into trimmed, non-empty candidate sentences.
func Segments(text string) []string {
	parts := sentenceBreak.Split(strings.TrimFunc(text, isSpace), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimFunc(p, isSpace); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Summarize returns text unchanged when it fits in maxLength runes.
// Otherwise it joins leading sentences, each followed by ". ", for as long
// as the joined text stays under maxLength-2 runes. When not even the first
// sentence fits, the text is cut at maxLength runes and trimmed back to the
// last space. Trailing periods and spaces are removed from the result.
func Summarize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	var b strings.Builder
	n := 0
	for _, sentence := range Segments(text) {
		l := utf8.RuneCountInString(sentence)
		if n+l >= maxLength-2 {
			break
		}
		b.WriteString(sentence)
		b.WriteString(". ")
		n += l + 2
	}

	summary := b.String()
	if summary == "" {
		summary = truncateAtSpace(text, maxLength)
	}
	return strings.TrimRight(summary, ". ")
}

// truncateAtSpace keeps the first maxLength runes and drops everything from
// the last space on. Without a space the whole prefix is kept.
func truncateAtSpace(text string, maxLength int) string {
	prefix := text
	if utf8.RuneCountInString(text) > maxLength {
		prefix = string([]rune(text)[:maxLength])
	}
	if i := strings.LastIndex(prefix, " "); i >= 0 {
		return prefix[:i]
	}
	return prefix
}
