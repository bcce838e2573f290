// Package tokenize implements UTF-8 tokenization of dictionary lines:
// splitting a line into its two fields, and splitting each field into
// tokens by a delimiter string or, when the delimiter is empty, by Unicode
// codepoint.
package tokenize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fields splits a dictionary line into its two columns on delim. Returns an
// error if the line doesn't have exactly two fields.
func Fields(line, delim string) (s1, s2 string, err error) {
	parts := strings.Split(line, delim)
	if len(parts) != 2 {
		return "", "", &MalformedLineError{Line: line}
	}
	return parts[0], parts[1], nil
}

// MalformedLineError reports a dictionary line that didn't split into
// exactly two fields on the configured delimiter.
type MalformedLineError struct {
	Line string
}

func (e *MalformedLineError) Error() string {
	return "malformed input line: " + e.Line
}

// Tokens splits s into tokens on delim, or by Unicode codepoint when delim
// is empty. The field is normalized to NFC first so that a combining-mark
// grapheme tokenizes as one codepoint sequence consistently across input
// encodings.
func Tokens(s, delim string) []string {
	s = norm.NFC.String(s)
	if delim == "" {
		return codepoints(s)
	}
	parts := strings.Split(s, delim)
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func codepoints(s string) []string {
	runes := []rune(s)
	out := make([]string, 0, len(runes))
	for _, r := range runes {
		out = append(out, string(r))
	}
	return out
}
