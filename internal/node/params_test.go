package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsDefaults(t *testing.T) {
	p := NewParams()
	assert.Equal(t, float64(25), p.XFreq)
	assert.Equal(t, float64(25), p.YFreq)
	assert.Zero(t, p.XPhase)
	assert.Zero(t, p.YPhase)
}

func TestParamsReset(t *testing.T) {
	p := NewParams()
	p.XFreq = 99
	p.YFreq = -3
	p.XPhase = 0.5
	p.YPhase = 1.5

	p.Reset()
	assert.Equal(t, *NewParams(), *p)

	// Reset has no memory of prior resets.
	p.XFreq = 1
	p.Reset()
	assert.Equal(t, float64(25), p.XFreq)
}
