package pattern

import (
	"io"
	"strconv"
)

// RenderMatch emits m to sink: for a non-Replace match, it writes the
// spans between children verbatim and recurses into each child; for a
// Replace match, it expands the replacement text's @-substitutions and
// \-escapes against input (spec.md 4.4).
func (e *Engine) RenderMatch(m *Match, input []byte, sink io.Writer) error {
	return renderMatch(m, input, sink)
}

func renderMatch(m *Match, input []byte, sink io.Writer) error {
	if m == nil {
		return nil
	}
	if m.Pat != nil && m.Pat.Kind == KindReplace {
		return renderReplace(m, input, sink)
	}

	cur := m.Start
	for _, c := range m.Children {
		if c.Start > cur {
			if _, err := sink.Write(input[cur:c.Start]); err != nil {
				return err
			}
		}
		if err := renderMatch(c, input, sink); err != nil {
			return err
		}
		if c.End > cur {
			cur = c.End
		}
	}
	if cur < m.End {
		if _, err := sink.Write(input[cur:m.End]); err != nil {
			return err
		}
	}
	return nil
}

func renderReplace(m *Match, input []byte, sink io.Writer) error {
	text := m.Pat.Text
	var inner *Match
	if len(m.Children) > 0 {
		inner = m.Children[0]
	}

	i := 0
	for i < len(text) {
		switch text[i] {
		case '@':
			i++
			if i >= len(text) {
				sink.Write([]byte{'@'})
				continue
			}
			switch {
			case text[i] == '@':
				sink.Write([]byte{'@'})
				i++
			case isASCIIDigit(text[i]):
				j := i
				for j < len(text) && isASCIIDigit(text[j]) {
					j++
				}
				n, _ := strconv.Atoi(text[i:j])
				if cap := GetNumberedCapture(inner, n); cap != nil {
					sink.Write(input[cap.Start:cap.End])
				} else {
					sink.Write([]byte("@" + text[i:j]))
				}
				i = j
			case isIDStartByte(text[i]):
				j := i
				for j < len(text) && isIDContinueByte(text[j]) {
					j++
				}
				name := text[i:j]
				end := j
				if end < len(text) && text[end] == ';' {
					end++
				}
				if cap := GetNamedCapture(inner, name); cap != nil {
					sink.Write(input[cap.Start:cap.End])
				} else {
					sink.Write([]byte("@" + name))
				}
				i = end
			default:
				sink.Write([]byte{'@'})
			}

		case '\\':
			i++
			if i >= len(text) {
				sink.Write([]byte{'\\'})
				continue
			}
			if text[i] == 'N' {
				sink.Write([]byte{'\n'})
				denter, dents := lineIndentAt(input, m.Start)
				for k := 0; k < dents; k++ {
					sink.Write([]byte{denter})
				}
				i++
				continue
			}
			if b, ok, consumed := decodeEscape(text[i:]); ok {
				sink.Write([]byte{b})
				i += consumed
			} else {
				sink.Write([]byte{text[i]})
				i++
			}

		default:
			sink.Write([]byte{text[i]})
			i++
		}
	}
	return nil
}

// lineIndentAt measures the leading run of identical space-or-tab bytes
// on the line containing pos, up to pos, directly over a raw byte
// buffer (used by the renderer, which has no context/text coupling).
func lineIndentAt(input []byte, pos int) (byte, int) {
	start := pos
	for start > 0 && input[start-1] != '\n' {
		start--
	}
	if start >= pos || start >= len(input) {
		return 0, 0
	}
	c := input[start]
	if c != ' ' && c != '\t' {
		return 0, 0
	}
	n := 0
	for j := start; j < pos && j < len(input) && input[j] == c; j++ {
		n++
	}
	return c, n
}
