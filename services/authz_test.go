package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	assert.True(t, CanModify(1, 1))
	assert.False(t, CanModify(2, 1))
	// Anonymous callers never modify, even against a zero-valued author.
	assert.False(t, CanModify(0, 0))
	assert.False(t, CanModify(0, 1))
}
