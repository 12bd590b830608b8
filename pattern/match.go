package pattern

import "unicode/utf8"

// matchResult is the lightweight seed value threaded through a
// left-recursion growth loop: the best match found so far for a
// recursive rule at a fixed position.
type matchResult struct {
	m  *Match
	ok bool
}

// eval is the recursive evaluator: given a context, an input position,
// and a pattern node, it produces a match or "no match". It implements
// PEG semantics — ordered choice, committed first match, greedy
// repetition without backtracking across a successful repetition — per
// spec.md 4.2.
//
// Returns (match, true, nil) on success, (nil, false, nil) on an
// ordinary mismatch, or (nil, false, err) when a bug-class
// InvariantError interrupts evaluation (spec.md 7: "matcher bugs ...
// are fatal and abort").
func (ctx *context) eval(n *Node, pos int) (*Match, bool, error) {
	if ctx.cfg.CallstackLimit > 0 {
		ctx.depth++
		if ctx.depth > ctx.cfg.CallstackLimit {
			ctx.depth--
			return nil, false, errReachedCallstackDeep
		}
		defer func() { ctx.depth-- }()
	}

	switch n.Kind {
	case KindAnyChar:
		r, size := ctx.readRune(pos)
		if size == 0 || r == '\n' {
			return nil, false, nil
		}
		return ctx.leaf(n, pos, pos+size), true, nil

	case KindRange:
		if pos >= len(ctx.text) {
			return nil, false, nil
		}
		b := ctx.text[pos]
		if b >= n.Lo && b <= n.Hi {
			return ctx.leaf(n, pos, pos+1), true, nil
		}
		return nil, false, nil

	case KindString:
		if len(n.Bytes) == 0 {
			return ctx.leaf(n, pos, pos), true, nil
		}
		end := pos + len(n.Bytes)
		if end > len(ctx.text) {
			return nil, false, nil
		}
		if !byteEqualFold([]byte(ctx.text[pos:end]), n.Bytes, ctx.cfg.CaseInsensitive) {
			return nil, false, nil
		}
		return ctx.leaf(n, pos, end), true, nil

	case KindIdStart:
		if pos >= len(ctx.text) || !isIDStartByte(ctx.text[pos]) {
			return nil, false, nil
		}
		return ctx.leaf(n, pos, pos+1), true, nil

	case KindIdContinue:
		if pos >= len(ctx.text) || !isIDContinueByte(ctx.text[pos]) {
			return nil, false, nil
		}
		return ctx.leaf(n, pos, pos+1), true, nil

	case KindWordBoundary:
		before := pos > 0 && isIDContinueByte(ctx.text[pos-1])
		after := pos < len(ctx.text) && isIDContinueByte(ctx.text[pos])
		if pos == 0 || before != after {
			return ctx.leaf(n, pos, pos), true, nil
		}
		return nil, false, nil

	case KindStartOfFile:
		if pos == 0 {
			return ctx.leaf(n, pos, pos), true, nil
		}
		return nil, false, nil

	case KindEndOfFile:
		if pos == len(ctx.text) {
			return ctx.leaf(n, pos, pos), true, nil
		}
		if pos == len(ctx.text)-1 && ctx.text[pos] == '\n' {
			return ctx.leaf(n, pos, pos), true, nil
		}
		return nil, false, nil

	case KindStartOfLine:
		if pos == 0 || ctx.text[pos-1] == '\n' {
			return ctx.leaf(n, pos, pos), true, nil
		}
		return nil, false, nil

	case KindEndOfLine:
		if pos == len(ctx.text) || ctx.text[pos] == '\n' {
			return ctx.leaf(n, pos, pos), true, nil
		}
		return nil, false, nil

	case KindNodent:
		return ctx.evalNodent(n, pos)

	case KindCurDent:
		return ctx.evalCurDent(n, pos)

	case KindNot:
		_, ok, err := ctx.eval(n.Args[0], pos)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return nil, false, nil
		}
		return ctx.leaf(n, pos, pos), true, nil

	case KindBefore:
		child, ok, err := ctx.eval(n.Args[0], pos)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		return ctx.newMatch(n, pos, pos, []*Match{child}), true, nil

	case KindAfter:
		return ctx.evalAfter(n, pos)

	case KindChain:
		return ctx.evalChain(n, pos)

	case KindOtherwise:
		a, ok, err := ctx.eval(n.Args[0], pos)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return a, true, nil
		}
		b, ok, err := ctx.eval(n.Args[1], pos)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return b, true, nil
		}
		return nil, false, nil

	case KindRepeat:
		return ctx.evalRepeat(n, pos)

	case KindUpto, KindUptoStrict:
		return ctx.evalUpto(n, pos)

	case KindMatch, KindNotMatch:
		return ctx.evalMatchPred(n, pos)

	case KindCapture, KindTagged:
		inner, ok, err := ctx.eval(n.Args[0], pos)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		return ctx.newMatch(n, inner.Start, inner.End, []*Match{inner}), true, nil

	case KindReplace:
		if len(n.Args) == 0 {
			return ctx.leaf(n, pos, pos), true, nil
		}
		inner, ok, err := ctx.eval(n.Args[0], pos)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		return ctx.newMatch(n, inner.Start, inner.End, []*Match{inner}), true, nil

	case KindRef:
		return ctx.evalRef(n, pos)

	case KindDefinitions:
		return ctx.evalDefinitions(n, pos)

	case KindLeftRecursion:
		n.LRDetected = true
		if n.Seed != nil && n.Seed.ok {
			return n.Seed.m, true, nil
		}
		return nil, false, nil

	default:
		return nil, false, errUnknownPatternKind
	}
}

func (ctx *context) leaf(n *Node, start, end int) *Match {
	return ctx.rec.newMatch(n, start, end, nil)
}

func (ctx *context) newMatch(n *Node, start, end int, children []*Match) *Match {
	return ctx.rec.newMatch(n, start, end, children)
}

// evalChain matches a then b in order. If a is a backreffable Capture,
// the bytes it captured are installed as a scoped literal-text
// definition of its name for the remainder of the chain (spec.md 4.2
// "Chain"), so a later Ref{name} must match that exact text again.
func (ctx *context) evalChain(n *Node, pos int) (*Match, bool, error) {
	a, b := n.Args[0], n.Args[1]

	ma, ok, err := ctx.eval(a, pos)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	pushed := false
	if a.Kind == KindCapture && a.Backreffable && a.Name != "" {
		lit := &Node{Kind: KindString, Bytes: []byte(ctx.text[ma.Start:ma.End])}
		setBounds(lit)
		ctx.pushShadow(a.Name, lit)
		pushed = true
	}

	mb, ok, err := ctx.eval(b, ma.End)
	if pushed {
		ctx.popScope()
	}
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return ctx.newMatch(n, ma.Start, mb.End, []*Match{ma, mb}), true, nil
}

// evalAfter implements fixed-length lookbehind: scan backwards from pos
// over codepoint boundaries, trying p against [candidate, pos); p must
// end exactly at pos. Only candidates within [pos-p.MaxLen, pos-p.MinLen]
// are tried (spec.md 4.2 "After").
func (ctx *context) evalAfter(n *Node, pos int) (*Match, bool, error) {
	p := n.Args[0]
	if p.MaxLen == Unbounded {
		return nil, false, errUnboundedLookbehind
	}

	minCand := pos - p.MaxLen
	if minCand < 0 {
		minCand = 0
	}
	maxCand := pos - p.MinLen
	if maxCand < 0 {
		return nil, false, nil
	}

	for cand := maxCand; cand >= minCand; cand-- {
		if cand < len(ctx.text) && !utf8.RuneStart(ctx.text[cand]) {
			continue
		}
		m, ok, err := ctx.eval(p, cand)
		if err != nil {
			return nil, false, err
		}
		if ok && m.End == pos {
			return ctx.newMatch(n, pos, pos, []*Match{m}), true, nil
		}
	}
	return nil, false, nil
}

// evalRepeat implements the greedy, non-backtracking Repeat loop of
// spec.md 4.2: separator required between iterations (not before the
// first), position restored to the start of a failed iteration, and a
// zero-width iteration at i>=1 commits the remaining count instead of
// looping forever.
func (ctx *context) evalRepeat(n *Node, pos int) (*Match, bool, error) {
	pat := n.Args[0]
	var sep *Node
	if len(n.Args) > 1 {
		sep = n.Args[1]
	}

	var children []*Match
	count := 0
	cur := pos

	for {
		if n.Max != Unbounded && count >= n.Max {
			break
		}
		if ctx.cfg.LoopLimit > 0 && count >= ctx.cfg.LoopLimit {
			return nil, false, errReachedLoopLimit
		}

		iterStart := cur
		var sepMatch *Match
		if count >= 1 && sep != nil {
			m, ok, err := ctx.eval(sep, cur)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				break
			}
			sepMatch = m
			cur = m.End
		}

		patMatch, ok, err := ctx.eval(pat, cur)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			cur = iterStart
			break
		}

		if sepMatch != nil {
			children = append(children, sepMatch)
		}
		children = append(children, patMatch)
		cur = patMatch.End
		count++

		if count >= 2 && cur == iterStart {
			// Zero-width iteration: both sep and pat produced no
			// progress. Committing further iterations would loop
			// forever for no textual gain, so treat the requirement as
			// satisfied and stop (spec.md 4.2 "Repeat").
			if count < n.Min {
				count = n.Min
			}
			break
		}
	}

	if count < n.Min {
		return nil, false, nil
	}
	return ctx.newMatch(n, pos, cur, children), true, nil
}

// evalUpto implements Upto/UptoStrict: advance over characters until
// target matches at the current position (peeked, not consumed), or
// fall back to skip, or (non-strict only) advance one codepoint,
// terminating at a newline. With neither target nor skip, advance to
// end-of-line (spec.md 4.2 "Upto").
func (ctx *context) evalUpto(n *Node, pos int) (*Match, bool, error) {
	var target, skip *Node
	if len(n.Args) > 0 {
		target = n.Args[0]
	}
	if len(n.Args) > 1 {
		skip = n.Args[1]
	}
	strict := n.Kind == KindUptoStrict

	var children []*Match
	cur := pos
	steps := 0

	for {
		if target != nil {
			if _, ok, err := ctx.eval(target, cur); err != nil {
				return nil, false, err
			} else if ok {
				return ctx.newMatch(n, pos, cur, children), true, nil
			}
		}

		if skip != nil {
			if sm, ok, err := ctx.eval(skip, cur); err != nil {
				return nil, false, err
			} else if ok {
				children = append(children, sm)
				cur = sm.End
				steps++
				if ctx.cfg.LoopLimit > 0 && steps > ctx.cfg.LoopLimit {
					return nil, false, errReachedLoopLimit
				}
				continue
			}
		}

		if target == nil && skip == nil {
			if cur >= len(ctx.text) || ctx.text[cur] == '\n' {
				return ctx.newMatch(n, pos, cur, children), true, nil
			}
			cur++
			continue
		}

		if strict {
			return nil, false, nil
		}

		if cur >= len(ctx.text) || ctx.text[cur] == '\n' {
			return nil, false, nil
		}
		_, sz := ctx.readRune(cur)
		if sz == 0 {
			sz = 1
		}
		cur += sz
		steps++
		if ctx.cfg.LoopLimit > 0 && steps > ctx.cfg.LoopLimit {
			return nil, false, errReachedLoopLimit
		}
	}
}

// evalMatchPred implements Match(a,b)/NotMatch(a,b): match a, then run
// the matcher against the slice [a.start, a.end) searching anywhere
// within it for b.
func (ctx *context) evalMatchPred(n *Node, pos int) (*Match, bool, error) {
	a, b := n.Args[0], n.Args[1]

	ma, ok, err := ctx.eval(a, pos)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	hit, err := ctx.searchWithin(ctx.text[ma.Start:ma.End], b)
	if err != nil {
		return nil, false, err
	}

	if n.Kind == KindMatch {
		if !hit {
			return nil, false, nil
		}
	} else if hit {
		return nil, false, nil
	}
	return ctx.newMatch(n, ma.Start, ma.End, []*Match{ma}), true, nil
}

func (ctx *context) searchWithin(sub string, b *Node) (bool, error) {
	subctx := newContext(sub, ctx.cfg, ctx.rec)
	subctx.pushScope(nil)
	i := 0
	for {
		if _, ok, err := subctx.eval(b, i); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
		if i >= len(sub) {
			return false, nil
		}
		_, sz := subctx.readRune(i)
		if sz == 0 {
			sz = 1
		}
		i += sz
	}
}

// evalRef resolves a reference in the active scope chain. It installs a
// LeftRecursion sentinel while evaluating the resolved pattern; if any
// nested Ref{name} at the same position observes the sentinel, it grows
// the seed until a re-evaluation stops lengthening, then keeps the
// longest result (spec.md 4.2 "Ref").
func (ctx *context) evalRef(n *Node, pos int) (*Match, bool, error) {
	resolved := ctx.lookup(n.Name)
	if resolved == nil {
		return nil, false, errUndefinedRule(n.Name)
	}

	if resolved.Kind == KindLeftRecursion && resolved.At == pos {
		resolved.LRDetected = true
		if resolved.Seed != nil && resolved.Seed.ok {
			return resolved.Seed.m, true, nil
		}
		return nil, false, nil
	}

	target := resolved
	if resolved.Kind == KindLeftRecursion {
		target = resolved.Fallback
	}

	cache := ctx.currentCache()
	if cache != nil {
		if m, ok, found := cache.get(pos, n.Id); found {
			return m, ok, nil
		}
	}

	lr := &Node{Kind: KindLeftRecursion, Name: n.Name, At: pos, Fallback: target}
	ctx.pushShadow(n.Name, lr)

	first, ok, err := ctx.eval(target, pos)
	if err != nil {
		ctx.popScope()
		return nil, false, err
	}

	if !lr.LRDetected {
		ctx.popScope()
		if !ok {
			if cache != nil {
				cache.put(pos, n.Id, nil, false)
			}
			return nil, false, nil
		}
		wrapped := ctx.wrapRef(n, first)
		if cache != nil {
			cache.put(pos, n.Id, wrapped, true)
		}
		return wrapped, true, nil
	}

	if !ok {
		ctx.popScope()
		if cache != nil {
			cache.put(pos, n.Id, nil, false)
		}
		return nil, false, nil
	}

	best := first
	lr.Seed = &matchResult{m: best, ok: true}
	for {
		lr.LRDetected = false
		next, ok2, err2 := ctx.eval(target, pos)
		if err2 != nil {
			ctx.popScope()
			return nil, false, err2
		}
		if !ok2 || next.End <= best.End {
			break
		}
		best = next
		lr.Seed = &matchResult{m: best, ok: true}
	}
	ctx.popScope()

	wrapped := ctx.wrapRef(n, best)
	if cache != nil {
		cache.put(pos, n.Id, wrapped, true)
	}
	return wrapped, true, nil
}

// wrapRef wraps a resolved rule's result in a single-child match node
// whose Pat is the Ref itself, for rendering stability.
func (ctx *context) wrapRef(n *Node, inner *Match) *Match {
	return ctx.newMatch(n, inner.Start, inner.End, []*Match{inner})
}

// evalDefinitions enters a fresh scope binding Name to Meaning, prepends
// it to the active chain, evaluates Next, then discards the scope and
// its cache (spec.md 4.2 "Definitions").
func (ctx *context) evalDefinitions(n *Node, pos int) (*Match, bool, error) {
	ctx.pushScope(map[string]*Node{n.Name: n.Meaning})
	var m *Match
	var ok bool
	var err error
	if n.Next != nil {
		m, ok, err = ctx.eval(n.Next, pos)
	} else {
		ok = true
		m = ctx.leaf(n, pos, pos)
	}
	ctx.popScope()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return m, true, nil
}

// lineStart returns the byte offset of the first character of the line
// containing pos.
func (ctx *context) lineStart(pos int) int {
	i := pos
	for i > 0 && ctx.text[i-1] != '\n' {
		i--
	}
	return i
}

// lineDentUpTo measures the leading run of identical space-or-tab bytes
// starting at start, stopping at limit.
func (ctx *context) lineDentUpTo(start, limit int) (denter byte, dents int) {
	i := start
	if i >= limit || i >= len(ctx.text) {
		return 0, 0
	}
	c := ctx.text[i]
	if c != ' ' && c != '\t' {
		return 0, 0
	}
	denter = c
	for i < limit && i < len(ctx.text) && ctx.text[i] == denter {
		dents++
		i++
	}
	return denter, dents
}

// evalNodent matches a newline followed by the same leading-whitespace
// prefix as the newline's current line (spec.md 4.2 "Nodent").
func (ctx *context) evalNodent(n *Node, pos int) (*Match, bool, error) {
	if pos >= len(ctx.text) || ctx.text[pos] != '\n' {
		return nil, false, nil
	}
	lineStart := ctx.lineStart(pos)
	denter, dents := ctx.lineDentUpTo(lineStart, pos)

	end := pos + 1
	if dents > 0 {
		if end+dents > len(ctx.text) {
			return nil, false, nil
		}
		for i := 0; i < dents; i++ {
			if ctx.text[end+i] != denter {
				return nil, false, nil
			}
		}
		end += dents
	}
	return ctx.leaf(n, pos, end), true, nil
}

// evalCurDent matches the current leading-whitespace prefix: the
// indentation of the line containing pos, required literally at pos
// (spec.md 4.2, Data Model "CurDent").
func (ctx *context) evalCurDent(n *Node, pos int) (*Match, bool, error) {
	lineStart := ctx.lineStart(pos)
	denter, dents := ctx.lineDentUpTo(lineStart, len(ctx.text))
	if dents == 0 {
		return ctx.leaf(n, pos, pos), true, nil
	}
	if pos+dents > len(ctx.text) {
		return nil, false, nil
	}
	for i := 0; i < dents; i++ {
		if ctx.text[pos+i] != denter {
			return nil, false, nil
		}
	}
	return ctx.leaf(n, pos, pos+dents), true, nil
}
