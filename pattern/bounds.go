package pattern

// setBounds computes MinLen/MaxLen for n from its already-bounded
// children. The parser calls this once per node, bottom-up, right after
// a node's children are attached, so every node's bounds are final by
// the time its parent reads them.
//
// Invariants (spec 3, "Invariants"): bounds over a Chain are additive;
// over Otherwise they take the elementwise min/max; over Repeat{min,max}
// they multiply with separator contribution when both sides are
// bounded; After(p) requires p.MaxLen != Unbounded.
func setBounds(n *Node) {
	switch n.Kind {
	case KindAnyChar, KindIdStart, KindIdContinue:
		n.MinLen, n.MaxLen = 1, 4 // widest UTF-8 codepoint
	case KindRange:
		n.MinLen, n.MaxLen = 1, 1
	case KindString:
		n.MinLen, n.MaxLen = len(n.Bytes), len(n.Bytes)
	case KindWordBoundary, KindStartOfLine, KindStartOfFile, KindEndOfLine, KindEndOfFile:
		n.MinLen, n.MaxLen = 0, 0
	case KindNodent:
		n.MinLen, n.MaxLen = 1, Unbounded
	case KindCurDent:
		n.MinLen, n.MaxLen = 0, Unbounded

	case KindNot, KindBefore:
		n.MinLen, n.MaxLen = 0, 0

	case KindAfter:
		pat := n.Args[0]
		if pat.MaxLen == Unbounded {
			panic(newInvariantError("After(p) requires a bounded lookbehind length"))
		}
		n.MinLen, n.MaxLen = 0, 0

	case KindChain:
		a, b := n.Args[0], n.Args[1]
		n.MinLen = addBounded(a.MinLen, b.MinLen)
		n.MaxLen = addUnbounded(a.MaxLen, b.MaxLen)

	case KindOtherwise:
		a, b := n.Args[0], n.Args[1]
		n.MinLen = minInt(a.MinLen, b.MinLen)
		n.MaxLen = maxUnbounded(a.MaxLen, b.MaxLen)

	case KindRepeat:
		pat := n.Args[0]
		var sep *Node
		if len(n.Args) > 1 {
			sep = n.Args[1]
		}
		n.MinLen = repeatBound(pat.MinLen, sep, n.Min, true)
		if n.Max == Unbounded || pat.MaxLen == Unbounded || (sep != nil && sep.MaxLen == Unbounded) {
			if n.Min > 0 && pat.MaxLen == 0 && (sep == nil || sep.MaxLen == 0) {
				n.MaxLen = 0
			} else {
				n.MaxLen = Unbounded
			}
		} else {
			n.MaxLen = repeatBound(pat.MaxLen, sep, n.Max, false)
		}

	case KindUpto, KindUptoStrict:
		n.MinLen, n.MaxLen = 0, Unbounded

	case KindMatch, KindNotMatch:
		a := n.Args[0]
		n.MinLen, n.MaxLen = a.MinLen, a.MaxLen

	case KindCapture, KindTagged:
		pat := n.Args[0]
		n.MinLen, n.MaxLen = pat.MinLen, pat.MaxLen

	case KindReplace:
		if len(n.Args) > 0 {
			pat := n.Args[0]
			n.MinLen, n.MaxLen = pat.MinLen, pat.MaxLen
		} else {
			n.MinLen, n.MaxLen = 0, 0
		}

	case KindRef:
		// Resolved lazily; refined once the referenced rule is known to
		// the parser (self-referential rules stay conservative).
		n.MinLen, n.MaxLen = 0, Unbounded

	case KindDefinitions:
		if n.Next != nil {
			n.MinLen, n.MaxLen = n.Next.MinLen, n.Next.MaxLen
		}

	default:
		n.MinLen, n.MaxLen = 0, Unbounded
	}
}

func addBounded(a, b int) int { return a + b }

func addUnbounded(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxUnbounded(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	if a > b {
		return a
	}
	return b
}

// repeatBound multiplies a per-iteration bound by a repeat count,
// adding the separator's contribution between iterations (count-1
// separators for count iterations).
func repeatBound(per int, sep *Node, count int, isMin bool) int {
	if count <= 0 {
		return 0
	}
	total := per * count
	if sep != nil && count > 1 {
		sepLen := sep.MinLen
		if !isMin {
			sepLen = sep.MaxLen
		}
		total += sepLen * (count - 1)
	}
	return total
}
