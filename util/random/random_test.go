package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Len(t, Key(32), 32)
	assert.NotEqual(t, Key(32), Key(32))
}
