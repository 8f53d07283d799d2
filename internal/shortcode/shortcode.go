// Package shortcode generates human-readable profile codes.
package shortcode

import (
	"crypto/rand"
	"strings"

	googleuuid "github.com/google/uuid"
)

// alphabet excludes ambiguous characters (0/O, 1/I/L).
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// Length is the number of characters in a generated code.
const Length = 6

// New generates a random profile code. Codes are short enough to be read
// over the phone; uniqueness is enforced by the database, callers retry on
// collision.
func New() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a UUID prefix if the random source fails.
		return strings.ToUpper(googleuuid.New().String()[:Length])
	}
	var b strings.Builder
	b.Grow(Length)
	for _, c := range buf {
		b.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return b.String()
}
