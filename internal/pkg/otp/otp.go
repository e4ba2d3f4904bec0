// Package otp issues six-digit one-time passcodes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 10 * time.Minute

var codeSpace = big.NewInt(1_000_000)

// Generator produces codes uniform over 000000-999999. Codes are not unique
// across accounts; within one account the TTL bounds reuse.
type Generator struct {
	ttl time.Duration
	now func() time.Time
}

// NewGenerator returns a Generator whose codes expire after ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewGenerator(ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{ttl: ttl, now: time.Now}
}

// WithClock returns a copy of g that reads the time from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	c := *g
	c.now = now
	return &c
}

// Generate returns a fixed-width code and its expiry.
func (g *Generator) Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), g.now().UTC().Add(g.ttl), nil
}
