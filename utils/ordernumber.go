package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// NewOrderNumber returns a human-readable ORD-YYYYMMDD-XXXXXXXX number with a
// random 8-hex-digit suffix. Uniqueness is enforced by the DB; callers retry
// on collision.
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%s-%08X", now.Format("20060102"), buf)
}
