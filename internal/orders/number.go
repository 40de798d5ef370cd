package orders

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber mints a globally unique order number of the
// form JCR-<unix millis>-<9 random base36 chars>. It doubles as the
// external correlation key sent to the payment gateway.
func GenerateOrderNumber(now time.Time) string {
	var b strings.Builder
	b.WriteString("JCR-")
	b.WriteString(big.NewInt(now.UnixMilli()).String())
	b.WriteByte('-')
	for i := 0; i < 9; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(orderNumberAlphabet[n.Int64()])
	}
	return b.String()
}
