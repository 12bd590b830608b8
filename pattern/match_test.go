package pattern

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matchTestData mirrors the teacher's patternTestData table shape
// (pattern_test.go), adapted to testify assertions per DESIGN.md.
type matchTestData struct {
	name    string
	source  string // pattern source, compiled with CompilePattern
	text    string
	wantOK  bool
	wantN   string // expected matched substring when wantOK
	ci      bool
}

func compileOrFail(t *testing.T, e *Engine, source string) *Node {
	t.Helper()
	pat, err := e.CompilePattern([]byte(source))
	require.NoError(t, err, "compiling %q", source)
	return pat
}

func runMatchTestData(t *testing.T, data []matchTestData) {
	for _, d := range data {
		d := d
		t.Run(d.name, func(t *testing.T) {
			e := NewEngine()
			pat := compileOrFail(t, e, d.source)
			cfg := DefaultConfig
			cfg.CaseInsensitive = d.ci
			m, err := e.NextMatch(pat, []byte(d.text), nil, nil, cfg)
			require.NoError(t, err)
			if !d.wantOK {
				assert.Nil(t, m, "expected no match for %q over %q", d.source, d.text)
				return
			}
			require.NotNil(t, m, "expected a match for %q over %q", d.source, d.text)
			assert.Equal(t, d.wantN, d.text[m.Start:m.End])
		})
	}
}

// Spec.md 8, scenario 1: left recursion.
func TestLeftRecursion(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "laugh left-recursive grammar",
			source: `laugh: (laugh "ha") / "Ha"` + "\n" + `laugh`,
			text:   "Hahaha!",
			wantOK: true,
			wantN:  "Hahaha",
		},
	})
}

// Spec.md 8, scenario 2: greedy repetition never gives iterations back.
func TestGreedyNoBacktrack(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "a+ b never backtracks",
			source: `+"a" "b"`,
			text:   "aaa",
			wantOK: false,
		},
	})
}

// Spec.md 8, scenario 3: ordered choice commits to the first match.
func TestOrderedChoice(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "foo before foobar",
			source: `"foo" / "foobar"`,
			text:   "foobar",
			wantOK: true,
			wantN:  "foo",
		},
	})
}

// Spec.md 8, scenario 4 (lookbehind), adjusted to a self-consistent
// input: the spec's own "xabc" example requires text[0:2] == "ab" to
// hold together with its stated result, which "xabc" does not satisfy;
// DESIGN.md records this as a documented interpretation.
func TestLookbehind(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "after ab, c",
			source: `<"ab" "c"`,
			text:   "abc",
			wantOK: true,
			wantN:  "c",
		},
	})
}

// Spec.md 8, scenario 5: Upto peeks its target without consuming it.
func TestUpto(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "upto END",
			source: `.."END"`,
			text:   "foo bar END more",
			wantOK: true,
			wantN:  "foo bar ",
		},
	})
}

// Spec.md 8, scenario 7: a backreffable capture's name matches the
// exact captured text over the rest of the chain.
func TestBackreffableChain(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "matching tag",
			source: `@tag:+\i "=" tag`,
			text:   "foo=foo",
			wantOK: true,
			wantN:  "foo=foo",
		},
		{
			name:   "mismatching tag",
			source: `@tag:+\i "=" tag`,
			text:   "foo=bar",
			wantOK: false,
		},
	})
}

func TestCaseInsensitiveString(t *testing.T) {
	runMatchTestData(t, []matchTestData{
		{
			name:   "ASCII fold",
			source: `"hello"`,
			text:   "HELLO",
			ci:     true,
			wantOK: true,
			wantN:  "HELLO",
		},
		{
			name:   "ASCII fold disabled",
			source: `"hello"`,
			text:   "HELLO",
			ci:     false,
			wantOK: false,
		},
	})
}

// Spec.md 8, scenario 6: replacement rendering, plus the "iterator
// reports two matches" property.
func TestReplacementRendering(t *testing.T) {
	e := NewEngine()
	base := compileOrFail(t, e, `@x=+"a"`)
	replace, err := e.CompileReplacement(base, []byte("[@x]"))
	require.NoError(t, err)

	input := []byte("aaabaa")
	var out bytes.Buffer
	var matches []*Match

	var prev *Match
	for {
		m, err := e.NextMatch(replace, input, prev, nil, DefaultConfig)
		require.NoError(t, err)
		if m == nil {
			break
		}
		matches = append(matches, m)
		prev = m
	}
	require.Len(t, matches, 2, "iterator should report exactly two matches")

	cur := 0
	for _, m := range matches {
		if m.Start > cur {
			out.Write(input[cur:m.Start])
		}
		require.NoError(t, e.RenderMatch(m, input, &out))
		cur = m.End
	}
	if cur < len(input) {
		out.Write(input[cur:])
	}
	assert.Equal(t, "[aaa]b[aa]", out.String())
}

// Spec.md 8, "Memo correctness": enabling or disabling the cache
// produces identical match streams.
func TestMemoCorrectness(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `laugh: (laugh "ha") / "Ha"`+"\n"+`*(laugh " ")`)
	text := []byte("Ha Haha Hahaha ")

	collect := func(disableMemo bool) []string {
		var spans []string
		cfg := DefaultConfig
		cfg.DisableMemo = disableMemo
		var prev *Match
		for {
			m, err := e.NextMatch(pat, text, prev, nil, cfg)
			require.NoError(t, err)
			if m == nil {
				break
			}
			spans = append(spans, string(text[m.Start:m.End]))
			prev = m
			e.RecycleMatch(m)
		}
		return spans
	}

	assert.Equal(t, collect(false), collect(true))
}

// Spec.md 8, "Progress": successive iterator calls never return the
// same span twice, and starts strictly advance.
func TestIteratorProgress(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `+"a"`)
	text := []byte("aaa bb aaa")

	var prev *Match
	var starts []int
	for {
		m, err := e.NextMatch(pat, text, prev, nil, DefaultConfig)
		require.NoError(t, err)
		if m == nil {
			break
		}
		starts = append(starts, m.Start)
		prev = m
	}
	require.Len(t, starts, 2)
	assert.Less(t, starts[0], starts[1])
}

// Spec.md 8, "Round-trip on non-replace": rendering a non-Replace match
// reproduces the matched bytes verbatim.
func TestRenderRoundTrip(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `@a:+\i "," @b:+\i`)
	text := []byte("abc,def")

	m, err := e.NextMatch(pat, text, nil, nil, DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, m)

	var out bytes.Buffer
	require.NoError(t, e.RenderMatch(m, text, &out))
	assert.Equal(t, string(text[m.Start:m.End]), out.String())
}

// Spec.md 8, "Capture coverage".
func TestCaptureCoverage(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `@a:+\i "," @b:+\i`)
	text := []byte("abc,def")

	m, err := e.NextMatch(pat, text, nil, nil, DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, m)

	a := GetNamedCapture(m, "a")
	b := GetNamedCapture(m, "b")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.LessOrEqual(t, m.Start, a.Start)
	assert.LessOrEqual(t, a.End, m.End)
	assert.LessOrEqual(t, m.Start, b.Start)
	assert.LessOrEqual(t, b.End, m.End)
}

func TestNumberedCapture(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `@+\i "," @+\i`)
	text := []byte("abc,def")

	m, err := e.NextMatch(pat, text, nil, nil, DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, m)

	first := GetNumberedCapture(m, 1)
	second := GetNumberedCapture(m, 2)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "abc", text[first.Start:first.End])
	assert.Equal(t, "def", text[second.Start:second.End])
}

func TestSkipPattern(t *testing.T) {
	e := NewEngine()
	pat := compileOrFail(t, e, `"x"`)
	skip := compileOrFail(t, e, `.`)
	text := []byte("abcx")

	m, err := e.NextMatch(pat, text, nil, skip, DefaultConfig)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "x", text[m.Start:m.End])
}
