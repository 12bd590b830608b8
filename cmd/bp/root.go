// Command bp is a thin CLI collaborator over the pattern engine: it
// resolves file arguments, loads grammar files, compiles the pattern,
// and walks NextMatch over each input, printing or rewriting matches.
// It never reimplements matching logic itself (SPEC_FULL.md C).
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bp-lang/bp/internal/fsscan"
	"github.com/bp-lang/bp/internal/grammarfile"
	"github.com/bp-lang/bp/internal/printer"
	"github.com/bp-lang/bp/pattern"
)

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "bp <pattern> [files...]",
		Short: "search and rewrite text with bp patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := loadFileDefaults()
			if err != nil {
				return errors.Wrap(err, "loading config")
			}

			logger, err := newLogger(flags.verbose)
			if err != nil {
				return errors.Wrap(err, "building logger")
			}
			defer logger.Sync() //nolint:errcheck

			return runSearch(cmd.OutOrStdout(), args, flags, defaults, logger)
		},
	}
	registerFlags(cmd.Flags(), flags)
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// runSearch compiles patternSrc (plus any grammar files) and an optional
// replacement, then searches every resolved file, writing results to
// out. This is where the CLI's domain-stack wiring lives; it calls only
// the pattern package's exported operations.
func runSearch(out io.Writer, args []string, flags *cliFlags, defaults fileDefaults, logger *zap.Logger) error {
	patternSrc := args[0]
	fileArgs := args[1:]

	engine := pattern.NewEngine()
	pat, err := grammarfile.Load(engine, flags.grammarFiles, []byte(patternSrc), logger)
	if err != nil {
		return errors.Wrap(err, "compiling pattern")
	}

	var replace *pattern.Node
	if flags.replacement != "" {
		replace, err = engine.CompileReplacement(pat, []byte(flags.replacement))
		if err != nil {
			return errors.Wrap(err, "compiling replacement")
		}
	}

	cfg := pattern.DefaultConfig
	cfg.CaseInsensitive = flags.caseInsensitive || defaults.CaseInsensitive

	forceColor := flags.forceColor || defaults.Color
	hl := printer.NewHighlighter(forceColor)

	files, err := fsscan.Resolve(fileArgs, isDir)
	if err != nil {
		return errors.Wrap(err, "resolving file arguments")
	}

	if len(files) == 0 {
		return searchReader(out, "<stdin>", os.Stdin, pat, replace, cfg, hl, engine, logger)
	}

	var searchErr error
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			searchErr = err
			continue
		}
		err = searchReader(out, path, f, pat, replace, cfg, hl, engine, logger)
		f.Close()
		if err != nil {
			searchErr = err
		}
	}
	return searchErr
}

func searchReader(out io.Writer, name string, r io.Reader, pat, replace *pattern.Node, cfg pattern.Config, hl *printer.Highlighter, engine *pattern.Engine, logger *zap.Logger) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "reading %q", name)
	}

	matchPat := pat
	if replace != nil {
		matchPat = replace
	}

	var prev *pattern.Match
	for {
		m, err := engine.NextMatch(matchPat, input, prev, nil, cfg)
		if err != nil {
			return errors.Wrapf(err, "matching %q", name)
		}
		if m == nil {
			break
		}
		if err := writeMatch(out, name, input, m, replace, hl, engine); err != nil {
			return err
		}
		prev = m
	}
	return nil
}

func writeMatch(out io.Writer, name string, input []byte, m *pattern.Match, replace *pattern.Node, hl *printer.Highlighter, engine *pattern.Engine) error {
	if replace != nil {
		var buf bytes.Buffer
		if err := engine.RenderMatch(m, input, &buf); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:%d: %s\n", name, m.Start, buf.String())
		return nil
	}

	lineStart, lineEnd := lineBounds(input, m.Start)
	fmt.Fprintf(out, "%s:%d: ", name, m.Start)
	if err := hl.WriteLine(out, input[lineStart:lineEnd], lineStart, []*pattern.Match{m}); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

func lineBounds(input []byte, pos int) (int, int) {
	start := bytes.LastIndexByte(input[:pos], '\n') + 1
	end := bytes.IndexByte(input[pos:], '\n')
	if end < 0 {
		end = len(input)
	} else {
		end += pos
	}
	return start, end
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
