package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_UniqueAndValid(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 26)
	assert.True(t, Valid(a))
	assert.False(t, Valid("not-a-ulid"))
}
