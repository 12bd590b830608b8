package pattern

// skipSpaceAndComments advances past runs of whitespace and "#"-to-
// newline comments (spec.md 4.1 "Lexical helpers"). When allowNewlines
// is false, a bare newline is left unconsumed so the caller can treat it
// as a terminator.
func (p *parser) skipSpaceAndComments(allowNewlines bool) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '#':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == '\n':
			if !allowNewlines {
				return
			}
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		default:
			return
		}
	}
}

// isIdentStartByte reports whether b may begin an identifier: a letter
// or underscore (spec.md 4.1 "Identifiers begin with a letter or _").
func isIdentStartByte(b byte) bool {
	return isASCIILetter(b) || b == '_'
}

// isIdentContinueByte reports whether b may continue an identifier:
// letters, digits, or "-".
func isIdentContinueByte(b byte) bool {
	return isASCIILetter(b) || isASCIIDigit(b) || b == '-'
}

// isBareNameByte reports whether b is one of ^ _ $ |, the bytes that
// form a name on their own (readIdent also accepts the doubled ^^, __
// and $$).
func isBareNameByte(b byte) bool {
	switch b {
	case '^', '_', '$', '|':
		return true
	}
	return false
}

// readIdent scans an identifier starting at p.pos, returning its text
// and whether one was found. It also recognizes the doubled bare names
// (^^, __, $$) and the single bare names (^, _, $, |) of spec.md 4.1.
func (p *parser) readIdent() (string, bool) {
	start := p.pos
	if p.pos >= len(p.src) {
		return "", false
	}
	c := p.src[p.pos]
	if isBareNameByte(c) {
		p.pos++
		if p.pos < len(p.src) && p.src[p.pos] == c && (c == '^' || c == '_' || c == '$') {
			p.pos++
		}
		return string(p.src[start:p.pos]), true
	}
	if !isIdentStartByte(c) {
		return "", false
	}
	p.pos++
	for p.pos < len(p.src) && isIdentContinueByte(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos]), true
}

func (p *parser) peekByte() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekByteAt(off int) byte {
	i := p.pos + off
	if i < 0 || i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) consumeByte(b byte) bool {
	if p.peekByte() == b {
		p.pos++
		return true
	}
	return false
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

func isHexDigit(b byte) bool {
	return isASCIIDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return 0
}

// decodeEscape decodes one escape sequence from s (s[0] is the byte
// immediately after the leading backslash), returning the literal byte
// value, whether decoding succeeded, and how many bytes of s it
// consumed. It implements the C-style forms of spec.md 4.1: \n \t \r,
// \xNN hex, \0..\377 octal (1-3 octal digits), and a literal escaped
// byte (\\, \", \', \`, or any other single byte taken verbatim). It is
// shared between the pattern parser (backslash atoms) and the
// replacement renderer (spec.md 4.4 "other \<c> sequences decode per
// §4.1 escape rules").
func decodeEscape(s string) (b byte, ok bool, consumed int) {
	if len(s) == 0 {
		return 0, false, 0
	}
	switch s[0] {
	case 'n':
		return '\n', true, 1
	case 't':
		return '\t', true, 1
	case 'r':
		return '\r', true, 1
	case '0':
		// \0 alone, or up to 3 octal digits starting with any octal digit.
		fallthrough
	case '1', '2', '3', '4', '5', '6', '7':
		n := 0
		i := 0
		for i < len(s) && i < 3 && isOctalDigit(s[i]) {
			n = n*8 + int(s[i]-'0')
			i++
		}
		return byte(n), true, i
	case 'x':
		if len(s) >= 3 && isHexDigit(s[1]) && isHexDigit(s[2]) {
			return byte(hexVal(s[1])*16 + hexVal(s[2])), true, 3
		}
		return 0, false, 1
	default:
		return s[0], true, 1
	}
}

// decodeEscapedByteOrRangeEnd decodes a single byte appearing as one end
// of a backtick char or a byte-range boundary: either a plain literal
// byte, or a backslash escape.
func (p *parser) decodeEscapedByteOrRangeEnd() (byte, bool) {
	if p.eof() {
		return 0, false
	}
	if p.src[p.pos] == '\\' {
		b, ok, n := decodeEscape(string(p.src[p.pos+1:]))
		if !ok {
			return 0, false
		}
		p.pos += 1 + n
		return b, true
	}
	b := p.src[p.pos]
	p.pos++
	return b, true
}
