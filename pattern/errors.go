package pattern

import "fmt"

// ParseError is a user-visible syntactic error with a byte span into the
// pattern source and a human-readable message. It is the only error the
// three compile operations ever raise.
type ParseError struct {
	Start, End int
	Message    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bp: parse error at %d:%d: %s", e.Start, e.End, e.Message)
}

func newParseError(start, end int, format string, args ...interface{}) *ParseError {
	return &ParseError{Start: start, End: end, Message: fmt.Sprintf(format, args...)}
}

// InvariantError marks a bug or logic error: an unknown pattern kind
// during evaluation, an unresolved Ref at match time, a variable-length
// lookbehind that slipped past the parser, or free-list corruption.
// These are fatal by default; OnInvariantError lets a host override the
// default abort with a recoverable result (see Config).
type InvariantError struct {
	value string
}

func (e *InvariantError) Error() string {
	return "bp: " + e.value
}

func newInvariantError(format string, args ...interface{}) *InvariantError {
	return &InvariantError{value: fmt.Sprintf(format, args...)}
}

var (
	errUnknownPatternKind   = newInvariantError("unknown pattern kind during evaluation")
	errUnboundedLookbehind  = newInvariantError("variable-length lookbehind slipped past the parser")
	errFreeListCorruption   = newInvariantError("match node free list corruption: double recycle")
	errReachedLoopLimit     = newInvariantError("loop limit reached")
	errReachedCallstackDeep = newInvariantError("recursion depth limit reached")
)

func errUndefinedRule(name string) *InvariantError {
	return newInvariantError("rule %q is undefined", name)
}
