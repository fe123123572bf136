package receipts

import (
	"strconv"
	"strings"
	"time"
)

const codeTimeLayout = "20060102150405"

// Code derives the printed verification code for an order. It is a
// pure function of the order number, the creation instant and the
// business name, so the generation and verification paths always agree
// as long as none of the three inputs changed.
//
// The construction: a 31-multiplier rolling hash over
// "orderNumber|createdAt|businessName" in 32-bit arithmetic, rendered
// in base 36, upper-cased, zero-padded on the left to eight characters
// (keeping the trailing eight if ever longer) and grouped 4+4.
func Code(orderNumber string, createdAt time.Time, businessName string) string {
	raw := orderNumber + "|" + createdAt.Format(codeTimeLayout) + "|" + businessName

	var h uint32
	for _, r := range raw {
		h = h*31 + uint32(r)
	}

	encoded := strings.ToUpper(strconv.FormatUint(uint64(h), 36))
	if len(encoded) < 8 {
		encoded = strings.Repeat("0", 8-len(encoded)) + encoded
	} else if len(encoded) > 8 {
		encoded = encoded[len(encoded)-8:]
	}

	return "SP-" + encoded[:4] + "-" + encoded[4:]
}
