package pattern

// Default limits of pattern matching, mirroring the teacher's
// DefaultCallstackLimit/DefaultLoopLimit guard rails against runaway
// recursion and zero-width loops.
const (
	DefaultCallstackLimit = 500
	DefaultLoopLimit      = 500
)

// OnInvariantError selects what happens when the matcher hits a bug
// class error (see InvariantError). The default contract (§7) is abort;
// library builds may opt into a recoverable result for host robustness.
type OnInvariantError int

const (
	// InvariantAbort panics with the InvariantError (default).
	InvariantAbort OnInvariantError = iota
	// InvariantReturn surfaces the InvariantError as a normal error
	// return from NextMatch instead of panicking.
	InvariantReturn
)

// Config threads matcher options explicitly instead of relying on
// process-wide globals (see DESIGN.md, "process-wide state" redesign).
type Config struct {
	// CaseInsensitive ASCII-folds String comparisons.
	CaseInsensitive bool

	// CallstackLimit bounds native recursion depth; zero or negative
	// means unlimited.
	CallstackLimit int

	// LoopLimit bounds the iteration count of a single Repeat/Upto
	// evaluation; zero or negative means unlimited.
	LoopLimit int

	// DisableMemo turns off the packrat cache. Exists solely to exercise
	// the memo-correctness testable property (spec.md 8): with it set,
	// match streams must be identical to the memoized run.
	DisableMemo bool

	// OnInvariantError selects abort-vs-return behavior for bug-class
	// errors raised during matching.
	OnInvariantError OnInvariantError
}

// DefaultConfig mirrors the teacher's defaultConfig value.
var DefaultConfig = Config{
	CallstackLimit: DefaultCallstackLimit,
	LoopLimit:      DefaultLoopLimit,
}
