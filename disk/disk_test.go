package disk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mkTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"a.log", "b.txt", "sub/c.log", "sub/Temp-d.log"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestWalkDirectory(t *testing.T) {
	dir := mkTree(t)
	testCases := []struct {
		name             string
		exclude, include string
		relative         bool
		want             []string
	}{
		{"all", "", "", true, []string{"a.log", "b.txt", "sub/Temp-d.log", "sub/c.log"}},
		{"exclude", ".*temp-.*", "", true, []string{"a.log", "b.txt", "sub/c.log"}},
		{"include", "", `.*\.LOG$`, true, []string{"a.log", "sub/Temp-d.log", "sub/c.log"}},
		{"anchored", "", `sub`, true, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WalkDirectory(dir, tc.exclude, tc.include, tc.relative)
			if err != nil {
				t.Fatal(err)
			}
			if !cmp.Equal(got, tc.want) {
				t.Error(cmp.Diff(tc.want, got))
			}
		})
	}

	abs, err := WalkDirectory(dir, "", `.*b\.txt`, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{filepath.Join(dir, "b.txt")}; !cmp.Equal(abs, want) {
		t.Error(cmp.Diff(want, abs))
	}

	if _, err := WalkDirectory(dir, "(", "", true); err == nil {
		t.Error("expected error for bad pattern")
	}
}

func TestGlob(t *testing.T) {
	dir := mkTree(t)
	got, err := Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{filepath.Join(dir, "a.log")}; !cmp.Equal(got, want) {
		t.Error(cmp.Diff(want, got))
	}
	if _, err := Glob("["); err == nil {
		t.Error("expected error for bad glob")
	}
}

func TestReadWriteGrep(t *testing.T) {
	name := filepath.Join(t.TempDir(), "status")
	if err := WriteFile(name, "state: running\n", false); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(name, "pid: 42\n", true); err != nil {
		t.Fatal(err)
	}
	content, err := ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if content != "state: running\npid: 42\n" {
		t.Errorf("content = %q", content)
	}

	match, found, err := GrepFile(name, `pid: (\d+)`)
	if err != nil || !found || match != "42" {
		t.Errorf("GrepFile = %q, %v, %v", match, found, err)
	}
	_, found, err = GrepFile(name, `uptime: (\d+)`)
	if err != nil || found {
		t.Errorf("GrepFile(no match) = %v, %v", found, err)
	}

	if err := RemoveFile(name); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(name); err == nil || !strings.Contains(err.Error(), "I/O error") {
		t.Errorf("ReadFile(removed) = %v", err)
	}
}

func TestTmpDir(t *testing.T) {
	dir := TmpDir()
	if dir == "" || strings.HasSuffix(dir, "/") {
		t.Errorf("TmpDir() = %q", dir)
	}
	if CWD() == "" {
		t.Error("CWD() is empty")
	}
}
