// Package fsscan resolves the CLI's file arguments to a concrete file
// list: glob-expanding bare patterns and walking any directory argument
// (SPEC_FULL.md C, "File argument globbing" / "Directory traversal").
package fsscan

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// CompileGlob compiles pattern with '/' as the path separator, so a
// pattern like "**/*.go" only crosses directory boundaries at an
// explicit "/".
func CompileGlob(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.Wrapf(err, "compiling glob %q", pattern)
	}
	return g, nil
}

// FilterGlob returns the subset of names matched by g.
func FilterGlob(g glob.Glob, names []string) []string {
	var out []string
	for _, name := range names {
		if g.Match(name) {
			out = append(out, name)
		}
	}
	return out
}
