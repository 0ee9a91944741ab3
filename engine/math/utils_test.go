package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(3, 5, 10))
	assert.Equal(t, 10, Clamp(12, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))

	assert.Equal(t, float32(-1.5), Clamp(float32(-2), -1.5, 1.5))
	assert.Equal(t, float32(1.5), Clamp(float32(99), -1.5, 1.5))
}
