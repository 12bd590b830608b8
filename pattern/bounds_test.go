package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsChainIsAdditive(t *testing.T) {
	e := NewEngine()
	n := compileOrFail(t, e, `"ab" "cde"`)
	assert.Equal(t, 5, n.MinLen)
	assert.Equal(t, 5, n.MaxLen)
}

func TestBoundsOtherwiseIsElementwise(t *testing.T) {
	e := NewEngine()
	n := compileOrFail(t, e, `"a" / "bcd"`)
	assert.Equal(t, 1, n.MinLen)
	assert.Equal(t, 3, n.MaxLen)
}

func TestBoundsRepeatIsMultiplicative(t *testing.T) {
	e := NewEngine()
	n := compileOrFail(t, e, `3-5"a"`)
	assert.Equal(t, 3, n.MinLen)
	assert.Equal(t, 5, n.MaxLen)
}

func TestBoundsUnboundedRepeatIsUnbounded(t *testing.T) {
	e := NewEngine()
	n := compileOrFail(t, e, `+"a"`)
	assert.Equal(t, Unbounded, n.MaxLen)
}

func TestBoundsSeparatorContributes(t *testing.T) {
	e := NewEngine()
	n := compileOrFail(t, e, `3"a" % ","`)
	// 3 iterations of "a" joined by 2 separators of ",".
	assert.Equal(t, 5, n.MinLen)
	assert.Equal(t, 5, n.MaxLen)
}

func TestBoundsRefStaysConservative(t *testing.T) {
	e := NewEngine()
	n := compileOrFail(t, e, "x")
	assert.Equal(t, 0, n.MinLen)
	assert.Equal(t, Unbounded, n.MaxLen)
}
