package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber ORD-YYYYMMDD-XXXXXX.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), RandomCode(6))
}

// NewTrackingNumber SHIP-<unix ms>-XXXXXX.
func NewTrackingNumber(now time.Time) string {
	return fmt.Sprintf("SHIP-%d-%s", now.UnixMilli(), RandomCode(6))
}

// NewReturnNumber RET-<unix ms>-XXXX.
func NewReturnNumber(now time.Time) string {
	return fmt.Sprintf("RET-%d-%s", now.UnixMilli(), RandomCode(4))
}

// NewRefundID REF-<unix ms>.
func NewRefundID(now time.Time) string {
	return fmt.Sprintf("REF-%d", now.UnixMilli())
}

// RandomCode cadena aleatoria de n caracteres en mayúsculas y dígitos.
func RandomCode(n int) string {
	b := make([]byte, n)
	n64 := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, n64)
		if err != nil {
			b[i] = codeAlphabet[i%len(codeAlphabet)]
			continue
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b)
}
