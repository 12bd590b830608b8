package main

import "github.com/spf13/pflag"

// cliFlags holds the pflag-bound values for the root command
// (SPEC_FULL.md D, "CLI surface").
type cliFlags struct {
	caseInsensitive bool
	grammarFiles    []string
	replacement     string
	forceColor      bool
	verbose         bool
}

func registerFlags(fs *pflag.FlagSet, f *cliFlags) {
	fs.BoolVarP(&f.caseInsensitive, "ignore-case", "i", false, "match case-insensitively")
	fs.StringArrayVarP(&f.grammarFiles, "grammar", "g", nil, "load definitions from a grammar file (repeatable)")
	fs.StringVarP(&f.replacement, "replace", "r", "", "render a replacement for each match instead of printing it verbatim")
	fs.BoolVarP(&f.forceColor, "color", "c", false, "force colorized output even when stdout isn't a terminal")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
}
