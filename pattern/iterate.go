package pattern

import "strings"

// Engine owns the process-wide state the teacher keeps as package
// globals — the pattern-id counter and the match-node free list — behind
// an explicit handle, per spec.md 9 "process-wide state" design note.
// Two engines never share state; the caller serializes access to one.
type Engine struct {
	ids *idSeq
	rec *recycler
}

// NewEngine creates an engine with its own pattern-id counter and match
// recycler.
func NewEngine() *Engine {
	return &Engine{ids: &idSeq{}, rec: &recycler{}}
}

// RecycleMatch returns m's entire subtree to this engine's free list.
func (e *Engine) RecycleMatch(m *Match) { e.rec.RecycleMatch(m) }

// DeletePattern releases a compiled pattern. Since match trees and
// patterns are owned by the caller (arena-style per spec.md 9) and Go's
// garbage collector reclaims unreferenced nodes, this call mainly exists
// to let a host sever references to a large pattern tree early;
// recursive additionally nils out every owned child pointer so no
// accidental reuse of a "deleted" node keeps the rest of the tree alive.
func DeletePattern(pat *Node, recursive bool) {
	if pat == nil || !recursive {
		return
	}
	for _, c := range pat.children() {
		DeletePattern(c, true)
	}
	pat.Args = nil
	pat.Meaning = nil
	pat.Next = nil
	pat.Fallback = nil
}

// NextMatch returns the first match whose start is >= previous.End (or
// previous.End + 1 when previous was zero-width), or nil if no match
// exists before the end of input. When skip is non-nil, a failed match
// attempt at pos retries at skip's end (or pos+1 codepoint if skip also
// fails) without affecting match content — only where matches may begin
// (spec.md 4.2 "Skip pattern", "Match ordering").
func (e *Engine) NextMatch(pat *Node, input []byte, previous *Match, skip *Node, cfg Config) (*Match, error) {
	text := string(input)
	ctx := newContext(text, cfg, e.rec)

	expr := unwrapDefinitions(ctx, pat)
	if expr == nil {
		return nil, nil
	}

	start := 0
	if previous != nil {
		start = previous.End
		if previous.End == previous.Start {
			start++
		}
	}
	if start < 0 {
		start = 0
	}

	anchor := findPrerequisite(ctx, expr)

	pos := start
	for pos <= len(text) {
		ctx.clearCaches()

		if anchor != nil {
			pos = fastForward(anchor, ctx.cfg.CaseInsensitive, text, pos)
			if pos > len(text) {
				break
			}
		}

		m, ok, err := ctx.eval(expr, pos)
		if err != nil {
			return nil, reportInvariantError(cfg, err)
		}
		if ok {
			return m, nil
		}

		pos = advanceSearchStart(ctx, skip, pos)
	}
	return nil, nil
}

func reportInvariantError(cfg Config, err error) error {
	if ierr, ok := err.(*InvariantError); ok {
		if cfg.OnInvariantError == InvariantReturn {
			return ierr
		}
		panic(ierr)
	}
	return err
}

func advanceSearchStart(ctx *context, skip *Node, pos int) int {
	if skip != nil {
		if sm, ok, err := ctx.eval(skip, pos); err == nil && ok {
			if sm.End > pos {
				return sm.End
			}
		}
	}
	_, sz := ctx.readRune(pos)
	if sz == 0 {
		sz = 1
	}
	return pos + sz
}

// unwrapDefinitions pushes a scope for every leading Definitions node
// and returns the terminal expression, or nil if the pattern is
// definitions-only (a grammar-file prelude with no trailing expression).
func unwrapDefinitions(ctx *context, n *Node) *Node {
	for n != nil && n.Kind == KindDefinitions {
		ctx.pushScope(map[string]*Node{n.Name: n.Meaning})
		n = n.Next
	}
	return n
}

// findPrerequisite descends n to find the leftmost concrete anchor that
// must match for n to match, per spec.md 4.2 "Prerequisite scan":
// Before->pat, Repeat[min>=1]->pat, Chain-> first child, Capture->pat,
// Match/NotMatch->a, Replace->pat, Ref->deref.
func findPrerequisite(ctx *context, n *Node) *Node {
	for n != nil {
		switch n.Kind {
		case KindString, KindStartOfLine, KindEndOfLine, KindStartOfFile, KindEndOfFile:
			return n
		case KindBefore:
			n = n.Args[0]
		case KindRepeat:
			if n.Min >= 1 {
				n = n.Args[0]
			} else {
				return nil
			}
		case KindChain:
			n = n.Args[0]
		case KindCapture, KindTagged:
			n = n.Args[0]
		case KindMatch, KindNotMatch:
			n = n.Args[0]
		case KindReplace:
			if len(n.Args) == 0 {
				return nil
			}
			n = n.Args[0]
		case KindRef:
			resolved := ctx.lookup(n.Name)
			if resolved == nil || resolved.Kind == KindLeftRecursion {
				return nil
			}
			n = resolved
		default:
			return nil
		}
	}
	return nil
}

// fastForward advances pos to the next position an anchor could
// possibly hold, or len(text)+1 ("no further candidate") when none
// remains. String uses a byte-memory search when case-sensitive (a
// case-insensitive String anchor can't jump: each byte needs an ASCII
// fold compare); StartOfLine/EndOfLine jump to the next newline;
// StartOfFile/EndOfFile short-circuit the loop entirely.
func fastForward(anchor *Node, caseInsensitive bool, text string, pos int) int {
	switch anchor.Kind {
	case KindString:
		if caseInsensitive || len(anchor.Bytes) == 0 {
			return pos
		}
		idx := strings.Index(text[pos:], string(anchor.Bytes))
		if idx < 0 {
			return len(text) + 1
		}
		return pos + idx

	case KindStartOfLine:
		if pos == 0 || text[pos-1] == '\n' {
			return pos
		}
		idx := strings.IndexByte(text[pos:], '\n')
		if idx < 0 {
			return len(text) + 1
		}
		return pos + idx + 1

	case KindEndOfLine:
		if pos == len(text) || text[pos] == '\n' {
			return pos
		}
		idx := strings.IndexByte(text[pos:], '\n')
		if idx < 0 {
			return len(text)
		}
		return pos + idx

	case KindStartOfFile:
		if pos == 0 {
			return 0
		}
		return len(text) + 1

	case KindEndOfFile:
		if pos == len(text) || (pos == len(text)-1 && len(text) > 0 && text[pos] == '\n') {
			return pos
		}
		return len(text) + 1

	default:
		return pos
	}
}
