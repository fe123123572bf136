package pos

import (
	"crypto/rand"
	"time"
)

const orderNumberPrefix = "POS"

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber builds a unique order number from the creation instant
// plus a random suffix. The timestamp alone is only second-precise, so
// the suffix keeps concurrent cashiers from colliding; the database
// unique constraint remains the final arbiter.
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return orderNumberPrefix + now.Format("20060102150405") + string(suffix)
}
