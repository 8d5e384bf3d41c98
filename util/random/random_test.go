package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32} {
		assert.Len(t, Seq(n), n)
	}
}

func TestSeqAlphanumeric(t *testing.T) {
	s := Seq(256)
	for _, r := range s {
		ok := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		assert.True(t, ok, "unexpected rune %q", r)
	}
}
