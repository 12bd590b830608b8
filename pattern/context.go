package pattern

import "unicode/utf8"

// scope is one entry in the matcher's scope chain. Definitions nodes
// and transient backreference bindings push a scope; each scope owns
// its own packrat cache (spec.md 4.2: "each definition scope owns its
// own cache — entering a new Definitions pushes a fresh cache; leaving
// pops it").
type scope struct {
	defs  map[string]*Node
	cache *memoTable
}

// context threads matcher state through the recursive evaluator:
// the input text, the scope chain (innermost last), and the recycler
// used to build the Match tree. One context is created per NextMatch
// search loop (see iterate.go) and its memo caches are cleared between
// successive search starts.
type context struct {
	cfg  Config
	text string

	scopes []*scope
	rec    *recycler

	depth int // current native recursion depth, for CallstackLimit
}

func newContext(text string, cfg Config, rec *recycler) *context {
	return &context{
		cfg:  cfg,
		text: text,
		rec:  rec,
	}
}

func (ctx *context) pushScope(defs map[string]*Node) *scope {
	s := &scope{defs: defs, cache: newMemoTable()}
	ctx.scopes = append(ctx.scopes, s)
	return s
}

func (ctx *context) popScope() {
	ctx.scopes = ctx.scopes[:len(ctx.scopes)-1]
}

// pushShadow installs a single-name binding that shadows outer scopes
// without opening a fresh memo cache, reusing whichever cache is
// currently active. Used to install the LeftRecursion sentinel (spec.md
// 4.2 "Ref") and the transient backreference binding a backreffable
// Capture creates over the rest of its Chain (spec.md 4.2 "Chain").
func (ctx *context) pushShadow(name string, n *Node) {
	ctx.scopes = append(ctx.scopes, &scope{
		defs:  map[string]*Node{name: n},
		cache: ctx.currentCache(),
	})
}

func (ctx *context) lookup(name string) *Node {
	for i := len(ctx.scopes) - 1; i >= 0; i-- {
		if pat, ok := ctx.scopes[i].defs[name]; ok {
			return pat
		}
	}
	return nil
}

func (ctx *context) currentCache() *memoTable {
	if ctx.cfg.DisableMemo || len(ctx.scopes) == 0 {
		return nil
	}
	return ctx.scopes[len(ctx.scopes)-1].cache
}

// clearCaches empties every live scope's memo table; called between
// successive NextMatch search starts.
func (ctx *context) clearCaches() {
	for _, s := range ctx.scopes {
		s.cache.clear()
	}
}

// readRune decodes the codepoint at pos, returning utf8.RuneError / 0
// at or past end-of-text.
func (ctx *context) readRune(pos int) (r rune, size int) {
	if pos >= len(ctx.text) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(ctx.text[pos:])
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIDStartByte(b byte) bool {
	return isASCIILetter(b) || b == '_'
}

func isIDContinueByte(b byte) bool {
	return isASCIILetter(b) || isASCIIDigit(b) || b == '_' || b == '-'
}

func foldASCIIByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// byteEqualFold compares a and b byte for byte, ASCII-case-folding both
// sides when ci is true (spec.md 4.2 "String(s): ... if case-insensitive,
// ASCII-fold both sides before compare").
func byteEqualFold(a, b []byte, ci bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if ci {
			x, y = foldASCIIByte(x), foldASCIIByte(y)
		}
		if x != y {
			return false
		}
	}
	return true
}
