package fsutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	rferrors "github.com/wippyai/resolvefs/errors"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func slashed(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}

func TestGlobSync(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"a.txt",
		"b.go",
		"src/c.go",
		"src/deep/d.go",
		"src/.hidden/e.go",
		".env",
	)

	tests := []struct {
		name     string
		patterns []string
		opts     GlobOptions
		want     []string
	}{
		{
			name:     "single star",
			patterns: []string{"*.go"},
			want:     []string{"b.go"},
		},
		{
			name:     "double star skips dot dirs",
			patterns: []string{"**/*.go"},
			want:     []string{"b.go", "src/c.go", "src/deep/d.go"},
		},
		{
			name:     "dot option",
			patterns: []string{"**/*.go"},
			opts:     GlobOptions{Dot: true},
			want:     []string{"b.go", "src/.hidden/e.go", "src/c.go", "src/deep/d.go"},
		},
		{
			name:     "dot slash prefix keeps dot files hidden",
			patterns: []string{"./*"},
			want:     []string{"a.txt", "b.go", "src"},
		},
		{
			name:     "dot slash double star",
			patterns: []string{"./**/*.go"},
			want:     []string{"b.go", "src/c.go", "src/deep/d.go"},
		},
		{
			name:     "dot slash with dot option",
			patterns: []string{"./*"},
			opts:     GlobOptions{Dot: true},
			want:     []string{".env", "a.txt", "b.go", "src"},
		},
		{
			name:     "explicit dot in nested segment",
			patterns: []string{"src/.hidden/*.go"},
			want:     []string{"src/.hidden/e.go"},
		},
		{
			name:     "explicit dot pattern",
			patterns: []string{".env"},
			want:     []string{".env"},
		},
		{
			name:     "union is de-duplicated and sorted",
			patterns: []string{"src/*.go", "*.txt", "**/c.go"},
			want:     []string{"a.txt", "src/c.go"},
		},
		{
			name:     "ignore",
			patterns: []string{"**/*.go"},
			opts:     GlobOptions{Ignore: []string{"src/deep/**"}},
			want:     []string{"b.go", "src/c.go"},
		},
		{
			name:     "no dir",
			patterns: []string{"src/*"},
			opts:     GlobOptions{NoDir: true},
			want:     []string{"src/c.go"},
		},
		{
			name:     "dirs included by default",
			patterns: []string{"src/*"},
			want:     []string{"src/c.go", "src/deep"},
		},
		{
			name:     "no matches",
			patterns: []string{"*.rs"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.Cwd = root
			got, err := GlobSync(tt.patterns, opts)
			if err != nil {
				t.Fatalf("GlobSync: %v", err)
			}
			if !reflect.DeepEqual(slashed(got), tt.want) {
				t.Errorf("got %v, want %v", slashed(got), tt.want)
			}
		})
	}
}

func TestGlobSync_Absolute(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "x.txt")

	got, err := GlobSync([]string{"*.txt"}, GlobOptions{Cwd: root, Absolute: true})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "x.txt")
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %v, want [%s]", got, want)
	}

	got, err = GlobSync([]string{filepath.Join(root, "*.txt")}, GlobOptions{Cwd: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "x.txt" {
		t.Errorf("absolute pattern: got %v", got)
	}
}

func TestGlobSync_BadPattern(t *testing.T) {
	_, err := GlobSync([]string{"[unclosed"}, GlobOptions{Cwd: t.TempDir()})
	var e *rferrors.Error
	if !errors.As(err, &e) || e.Kind != rferrors.KindInvalidPattern {
		t.Errorf("err = %v, want invalid pattern", err)
	}

	_, err = GlobSync([]string{"*"}, GlobOptions{Cwd: t.TempDir(), Ignore: []string{"[bad"}})
	if !errors.As(err, &e) || e.Kind != rferrors.KindInvalidPattern {
		t.Errorf("ignore err = %v, want invalid pattern", err)
	}
}

func TestGlob_Async(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "one.md", "two.md")

	got, err := Glob(context.Background(), []string{"*.md"}, GlobOptions{Cwd: root}).Await(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"one.md", "two.md"}) {
		t.Errorf("got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Glob(ctx, []string{"*"}, GlobOptions{Cwd: root}).Await(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled err = %v", err)
	}
}

func TestNamesDot(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"*", false},
		{"./*", false},
		{"./**/*.go", false},
		{"../*", false},
		{".env", true},
		{"./.env", true},
		{"src/.hidden/*", true},
		{"**/.git", true},
	}
	for _, tt := range tests {
		if got := namesDot(tt.pattern); got != tt.want {
			t.Errorf("namesDot(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}
