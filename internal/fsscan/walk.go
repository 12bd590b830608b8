package fsscan

import (
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// Walk collects every regular file under root, skipping dotfiles and
// dot-directories, for the CLI's "search a directory" argument form.
func Walk(root string) ([]string, error) {
	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			name := de.Name()
			if name != "." && len(name) > 0 && name[0] == '.' {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() {
				return nil
			}
			files = append(files, path)
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %q", root)
	}
	return files, nil
}

const globMeta = "*?[{"

// Resolve expands each of args into a concrete file list: a directory is
// walked, a plain filename is passed through unchanged, and anything
// containing a glob metacharacter is matched against Walk(".")'s results.
func Resolve(args []string, isDir func(string) bool) ([]string, error) {
	var out []string
	var candidates []string
	for _, arg := range args {
		switch {
		case isDir(arg):
			files, err := Walk(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
		case strings.ContainsAny(arg, globMeta):
			if candidates == nil {
				files, err := Walk(".")
				if err != nil {
					return nil, err
				}
				candidates = files
			}
			g, err := CompileGlob(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, FilterGlob(g, candidates)...)
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}
