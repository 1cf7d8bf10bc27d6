package asnutil

import (
	"regexp"
	"strings"
	"unicode"
)

var nonWordAtWordBoundary = regexp.MustCompile(`(\W)([a-zA-Z][a-z])`)
var startingDigits = regexp.MustCompile(`^([\d]+)(.*)`)

// NormalizeName converts a display name like "Octet String" or "bit-string" to
// a CamelCase identifier like "OctetString".
func NormalizeName(s string) string {
	// 1. Replace round brackets with spaces
	s = strings.Map(func(r rune) rune {
		switch r {
		case '(', ')':
			return ' '
		}
		return r
	}, s)

	// 2. If a non-word char is followed by a letter then a lower case letter, replace the non-word char with space
	s = nonWordAtWordBoundary.ReplaceAllString(s, " $2")

	// 3. Replace remaining non-word chars (except whitespace) with underscore.
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		case r == ' ':
		default:
			return '_'
		}
		return r
	}, s)

	words := strings.Split(s, " ")

	for i, w := range words {

		if i == 0 {
			// 4. If the first word begins with a digit, move all digits at start of first word to end of first word
			w = startingDigits.ReplaceAllString(w, `$2$1`)
		}

		// 5. Capitalize the first letter of each word
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}

	// 6. Concatenate all words with spaces removed
	return strings.Join(words, "")
}

// FoldName reduces a name to lower case letters and digits, so "X509_NAME",
// "x509 name" and "X509Name" all fold to "x509name".
func FoldName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case unicode.IsLetter(r):
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
