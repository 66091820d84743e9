// Package disk holds the local filesystem helpers check programs use:
// walking directories, globbing, reading and grepping files.
package disk

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xuenqlve/checkkit/errors"
)

// TmpDir 返回临时目录，不带结尾的 '/'
func TmpDir() string {
	dir := os.TempDir()
	if dir == "" {
		return "/tmp"
	}
	return strings.TrimSuffix(dir, string(filepath.Separator))
}

func CWD() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

// compileAnchored 与 Python re.match 一致：只从开头匹配，忽略大小写
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)`)
	if err != nil {
		return nil, errors.Annotatef(err, "bad pattern %q", pattern)
	}
	return re, nil
}

// WalkDirectory lists the regular files below path. Files whose full path
// matches exclude are skipped; if include is set only matching files are
// kept. Both patterns are case-insensitive and anchored at the start of the
// path. With relative set, the returned names are relative to path.
func WalkDirectory(path, exclude, include string, relative bool) ([]string, error) {
	excludeRe, err := compileAnchored(exclude)
	if err != nil {
		return nil, err
	}
	includeRe, err := compileAnchored(include)
	if err != nil {
		return nil, err
	}

	var result []string
	err = filepath.WalkDir(path, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if excludeRe != nil && excludeRe.MatchString(name) {
			return nil
		}
		if includeRe != nil && !includeRe.MatchString(name) {
			return nil
		}
		if relative {
			rel, err := filepath.Rel(path, name)
			if err != nil {
				return err
			}
			name = rel
		}
		result = append(result, name)
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

// Glob returns the sorted names matching pattern.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Annotatef(err, "bad glob %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

func ReadFile(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Annotatef(err, "I/O error while opening or reading %s", name)
	}
	return string(data), nil
}

func WriteFile(name, content string, appendMode bool) error {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return errors.Annotatef(err, "I/O error while opening %s", name)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.Annotatef(err, "I/O error while writing %s", name)
	}
	return errors.Trace(f.Close())
}

func RemoveFile(name string) error {
	if err := os.Remove(name); err != nil {
		return errors.Annotatef(err, "removing %s failed", name)
	}
	return nil
}

// GrepFile returns the first capture group of the first match of pattern in
// the file. found is false when nothing matches.
func GrepFile(name, pattern string) (match string, found bool, err error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false, errors.Annotatef(err, "bad pattern %q", pattern)
	}
	data, err := ReadFile(name)
	if err != nil {
		return "", false, err
	}
	groups := re.FindStringSubmatch(data)
	if groups == nil {
		return "", false, nil
	}
	if len(groups) < 2 {
		return groups[0], true, nil
	}
	return groups[1], true, nil
}
