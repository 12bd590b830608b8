package pattern

// CompilePattern parses pattern source into an AST (spec.md 6
// "compile-pattern"). The returned Node's source spans point back into
// source; callers must keep it alive for as long as the Node (or any
// Match produced from it) is used.
func (e *Engine) CompilePattern(source []byte) (*Node, error) {
	p := &parser{ids: e.ids, src: source}
	n, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = p.emptyString(0)
	}
	return n, nil
}

// CompileReplacement wraps pat in a Replace node whose text is text,
// expanded at render time (spec.md 6 "compile-replacement", spec.md
// 4.4).
func (e *Engine) CompileReplacement(pat *Node, text []byte) (*Node, error) {
	n := newNode(e.ids, KindReplace, pat.Start, pat.End)
	n.Args = []*Node{pat}
	n.Text = string(text)
	setBounds(n)
	return n, nil
}

// CompileStringPattern parses source beginning in "string" mode:
// literal bytes except where "\" introduces an embedded pattern, with
// an optional trailing ";" terminating the embed (spec.md 6
// "compile-string-pattern"). Literal fragments borrow from source, so
// the same lifetime rule as CompilePattern applies.
func (e *Engine) CompileStringPattern(source []byte) (*Node, error) {
	p := &parser{ids: e.ids, src: source}
	return p.parseStringPattern()
}
