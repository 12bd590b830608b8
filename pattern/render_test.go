package pattern

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderOrFail(t *testing.T, e *Engine, base *Node, replaceText, input string) string {
	t.Helper()
	replace, err := e.CompileReplacement(base, []byte(replaceText))
	require.NoError(t, err)
	m, err := e.NextMatch(replace, []byte(input), nil, nil, DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, m, "expected a match for %q over %q", base, input)
	var out bytes.Buffer
	require.NoError(t, e.RenderMatch(m, []byte(input), &out))
	return out.String()
}

func TestRenderLiteralAt(t *testing.T) {
	e := NewEngine()
	base := compileOrFail(t, e, `"a"`)
	got := renderOrFail(t, e, base, "x@@y", "a")
	assert.Equal(t, "x@y", got)
}

func TestRenderNumberedCapture(t *testing.T) {
	e := NewEngine()
	base := compileOrFail(t, e, `@+\i "," @+\i`)
	got := renderOrFail(t, e, base, "@2-@1", "abc,def")
	assert.Equal(t, "def-abc", got)
}

func TestRenderUnknownNameFallsBackToLiteral(t *testing.T) {
	e := NewEngine()
	base := compileOrFail(t, e, `@a:+\i`)
	got := renderOrFail(t, e, base, "<@missing>", "abc")
	assert.Equal(t, "<@missing>", got)
}

func TestRenderByteEscape(t *testing.T) {
	e := NewEngine()
	base := compileOrFail(t, e, `"a"`)
	got := renderOrFail(t, e, base, `col1\tcol2`, "a")
	assert.Equal(t, "col1\tcol2", got)
}

func TestRenderRoundTripOnPlainMatch(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `"hello"`)
	m, err := e.NextMatch(pat, []byte("hello"), nil, nil, DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, m)
	var out bytes.Buffer
	require.NoError(t, e.RenderMatch(m, []byte("hello"), &out))
	assert.Equal(t, "hello", out.String())
}
