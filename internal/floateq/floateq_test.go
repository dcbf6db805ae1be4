package floateq_test

import (
	"testing"

	"github.com/anndex/anndex/internal/floateq"
	"github.com/stretchr/testify/assert"
)

func TestExactEqual(t *testing.T) {
	assert.True(t, floateq.Equal(1.0, 1.0, floateq.DefaultEpsilon))
}

func TestNearZeroFallsBackToAbsolute(t *testing.T) {
	assert.True(t, floateq.Equal(0, 1e-12, 1e-9))
	assert.False(t, floateq.Equal(0, 1e-3, 1e-9))
}

func TestRelativeScalesWithMagnitude(t *testing.T) {
	assert.True(t, floateq.Equal(1e6, 1e6+0.5, 1e-6))
	assert.False(t, floateq.Equal(1.0, 1.1, 1e-6))
}
