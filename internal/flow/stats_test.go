package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunningEmpty(t *testing.T) {
	var r running

	assert.Zero(t, r.count())
	assert.Zero(t, r.total())
	assert.Zero(t, r.min())
	assert.Zero(t, r.max())
	assert.Zero(t, r.mean())
	assert.Zero(t, r.std())
	assert.Zero(t, r.variance())
}

func TestRunningPopulationStd(t *testing.T) {
	var r running
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		r.push(v)
	}

	assert.Equal(t, uint64(8), r.count())
	assert.Equal(t, float64(40), r.total())
	assert.Equal(t, float64(2), r.min())
	assert.Equal(t, float64(9), r.max())
	assert.Equal(t, float64(5), r.mean())
	assert.InDelta(t, 4.0, r.variance(), 1e-9)
	assert.InDelta(t, 2.0, r.std(), 1e-9)
}

func TestRunningSingleValue(t *testing.T) {
	var r running
	r.push(42)

	assert.Equal(t, float64(42), r.min())
	assert.Equal(t, float64(42), r.max())
	assert.Equal(t, float64(42), r.mean())
	assert.Zero(t, r.std())
}

func TestRunningNegativeValues(t *testing.T) {
	var r running
	r.push(-3)
	r.push(5)

	assert.Equal(t, float64(-3), r.min())
	assert.Equal(t, float64(5), r.max())
	assert.Equal(t, float64(1), r.mean())
}
