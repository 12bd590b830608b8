package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunSearchPlainMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo bar baz\n"), 0o644))

	var out bytes.Buffer
	flags := &cliFlags{}
	err := runSearch(&out, []string{`"bar"`, path}, flags, fileDefaults{}, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), path)
	assert.Contains(t, out.String(), "bar")
}

func TestRunSearchWithReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaabaa\n"), 0o644))

	var out bytes.Buffer
	flags := &cliFlags{replacement: "[@x]"}
	err := runSearch(&out, []string{`@x=+"a"`, path}, flags, fileDefaults{}, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[aaa]")
	assert.Contains(t, out.String(), "[aa]")
}

func TestRunSearchCaseInsensitiveFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("HELLO\n"), 0o644))

	var out bytes.Buffer
	flags := &cliFlags{caseInsensitive: true}
	err := runSearch(&out, []string{`"hello"`, path}, flags, fileDefaults{}, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "HELLO")
}

func TestRunSearchGrammarFile(t *testing.T) {
	dir := t.TempDir()
	grammar := filepath.Join(dir, "rules.bp")
	require.NoError(t, os.WriteFile(grammar, []byte("word: +\\i\n"), 0o644))
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello\n"), 0o644))

	var out bytes.Buffer
	flags := &cliFlags{grammarFiles: []string{grammar}}
	err := runSearch(&out, []string{"word", input}, flags, fileDefaults{}, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello")
}
