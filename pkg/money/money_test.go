package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.01, Round2(10.005))
	assert.Equal(t, -10.01, Round2(-10.005))
	assert.Equal(t, 10.0, Round2(10.004))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, 20.0, Round2(2*10.00))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(10.00, 10.01))
	assert.True(t, Equal(10.00, 9.99))
	assert.False(t, Equal(10.00, 10.02))
	assert.True(t, Equal(0.1+0.2, 0.3))
}

func TestGreaterOrEqual(t *testing.T) {
	assert.True(t, GreaterOrEqual(25.00, 20.00))
	assert.True(t, GreaterOrEqual(19.99, 20.00))
	assert.False(t, GreaterOrEqual(19.98, 20.00))
}

func TestSpreadResidue(t *testing.T) {
	// resíduo de 1 centavo vai para a primeira linha
	lines := []float64{33.33, 33.33, 33.33}
	lines, rest := SpreadResidue(lines, 100.00)
	assert.Equal(t, 0.0, rest)
	assert.Equal(t, 33.34, lines[0])
	assert.Equal(t, 33.33, lines[1])

	// soma já fechada não sofre ajuste
	lines = []float64{50.00, 50.00}
	lines, rest = SpreadResidue(lines, 100.00)
	assert.Equal(t, 0.0, rest)
	assert.Equal(t, 50.00, lines[0])

	// diferença maior que a tolerância é devolvida sem ajuste
	lines = []float64{40.00, 40.00}
	_, rest = SpreadResidue(lines, 100.00)
	assert.Equal(t, 20.00, rest)
}
