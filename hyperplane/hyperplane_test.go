package hyperplane_test

import (
	"testing"

	"github.com/anndex/anndex/hyperplane"
	"github.com/anndex/anndex/vector"
	"github.com/stretchr/testify/assert"
)

func TestThroughOrigin(t *testing.T) {
	h := hyperplane.Through(vector.New([]float64{1, 0}))
	assert.InDelta(t, 2.0, h.Margin(vector.New([]float64{2, 5})), 1e-9)
	assert.True(t, h.Side(vector.New([]float64{0.1, -100})))
	assert.False(t, h.Side(vector.New([]float64{-0.1, 100})))
}

func TestThroughMidpointSeparatesItsSources(t *testing.T) {
	a := vector.New([]float64{0, 0})
	b := vector.New([]float64{2, 0})
	h := hyperplane.ThroughMidpoint(a, b)

	assert.InDelta(t, 0, h.Margin(vector.New([]float64{1, 0})), 1e-9)
	assert.True(t, h.Side(b))
	assert.False(t, h.Side(a))
}

func TestDistanceIsUnsigned(t *testing.T) {
	h := hyperplane.ThroughPoint(vector.New([]float64{0, 1}), vector.New([]float64{0, 0}))
	assert.InDelta(t, 3.0, h.Distance(vector.New([]float64{5, 3})), 1e-9)
	assert.InDelta(t, 3.0, h.Distance(vector.New([]float64{5, -3})), 1e-9)
}

func TestIsUnitNormal(t *testing.T) {
	h := hyperplane.Through(vector.New([]float64{1, 0}))
	assert.True(t, h.IsUnitNormal(1e-9))

	notUnit := hyperplane.Hyperplane[float64]{Normal: vector.New([]float64{2, 0})}
	assert.False(t, notUnit.IsUnitNormal(1e-9))
}
