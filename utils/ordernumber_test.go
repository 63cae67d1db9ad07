package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	n := NewOrderNumber(now)
	assert.Regexp(t, `^ORD-20260830-[0-9A-F]{8}$`, n)
}

func TestNewOrderNumberVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber(now)] = true
	}
	// 50 draws from a 32-bit space should not collide
	assert.Greater(t, len(seen), 45)
}
