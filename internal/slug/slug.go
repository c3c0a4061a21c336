// Package slug derives unique, URL-safe article identifiers from titles.
package slug

import (
	"math/rand/v2"
	"strings"
)

// suffixLen is the fixed length of the random base-36 suffix.
const suffixLen = 6

// suffixSpace is 36^suffixLen, the number of possible suffixes.
const suffixSpace = 36 * 36 * 36 * 36 * 36 * 36

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Make lower-cases and hyphenates the title into a URL-safe token and
// appends a random base-36 suffix. Uniqueness is probabilistic: the suffix
// space is large enough that a collision is accepted as negligible, which
// avoids a uniqueness-checking round trip on every create.
func Make(title string) string {
	token := hyphenate(title)
	if token == "" {
		return suffix()
	}
	return token + "-" + suffix()
}

// hyphenate lower-cases the title and collapses every run of
// non-alphanumeric characters into a single hyphen.
func hyphenate(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			if b.Len() > 0 {
				pendingHyphen = true
			}
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// suffix returns a zero-padded base-36 token drawn from [0, 36^6).
func suffix() string {
	n := rand.Int64N(suffixSpace)
	buf := [suffixLen]byte{}
	for i := suffixLen - 1; i >= 0; i-- {
		buf[i] = base36[n%36]
		n /= 36
	}
	return string(buf[:])
}
