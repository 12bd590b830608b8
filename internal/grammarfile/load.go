// Package grammarfile loads one or more pattern-source files containing
// only top-level definitions and concatenates them ahead of a
// user-supplied pattern string (SPEC_FULL.md D, "Grammar file format").
package grammarfile

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/bp-lang/bp/pattern"
)

// builtinPrelude defines commonly reused identifier-class and whitespace
// helpers, the way the teacher's pegutil registry does, but as bp
// pattern-source definitions rather than Go combinator calls.
//
//go:embed builtin.bp
var builtinPrelude []byte

// Load reads every grammar file in paths, rejects any that carry a
// trailing expression of their own, and compiles the built-in prelude,
// every file (in the order given), and userPattern as one combined
// pattern. A bad file does not hide errors from the others: every
// read/parse failure is collected via multierr before Load returns.
func Load(engine *pattern.Engine, paths []string, userPattern []byte, logger *zap.Logger) (*pattern.Node, error) {
	combined := append([]byte(nil), builtinPrelude...)

	var loadErr error
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			loadErr = multierr.Append(loadErr, errors.Wrapf(err, "reading grammar file %q", path))
			continue
		}
		if err := validateDefinitionsOnly(src); err != nil {
			loadErr = multierr.Append(loadErr, errors.Wrapf(annotatePosition(err, src), "grammar file %q", path))
			continue
		}
		if logger != nil {
			logger.Debug("loaded grammar file", zap.String("path", path), zap.Int("bytes", len(src)))
		}
		combined = append(combined, '\n')
		combined = append(combined, src...)
	}
	if loadErr != nil {
		return nil, loadErr
	}

	combined = append(combined, '\n')
	combined = append(combined, userPattern...)

	pat, err := engine.CompilePattern(combined)
	if err != nil {
		return nil, errors.Wrap(annotatePosition(err, combined), "compiling grammar")
	}
	return pat, nil
}

// annotatePosition rewraps a *pattern.ParseError with its line:column
// location in src, resolved via pattern.PositionAt; the ParseError
// itself only carries byte offsets, which are awkward for a human
// reading a reported grammar error.
func annotatePosition(err error, src []byte) error {
	perr, ok := err.(*pattern.ParseError)
	if !ok {
		return err
	}
	pos := pattern.PositionAt(src, perr.Start)
	return errors.Wrapf(perr, "at %s", pos)
}

// validateDefinitionsOnly reports an error wrapping the underlying
// *pattern.ParseError (when the file itself fails to parse) or a plain
// error (when it parses fine but leaves a trailing expression) — a
// grammar file contributes only rule bodies, never a top-level pattern
// of its own.
func validateDefinitionsOnly(src []byte) error {
	scratch := pattern.NewEngine()
	n, err := scratch.CompilePattern(src)
	if err != nil {
		return err
	}
	for n != nil && n.Kind == pattern.KindDefinitions {
		n = n.Next
	}
	if n != nil {
		return errors.New("grammar file has a trailing expression; only definitions are allowed")
	}
	return nil
}
