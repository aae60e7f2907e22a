package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/resolvefs/fsutil"
	"github.com/wippyai/resolvefs/stream"
	"github.com/wippyai/resolvefs/tempfile"
	"github.com/wippyai/resolvefs/value"
)

type config struct {
	registry  *tempfile.Registry
	patterns  []string
	cwd       string
	lstat     bool
	dot       bool
	abs       bool
	stdinTemp bool
	keep      bool
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, newPainter()))
}

// realMain runs the tool and returns the process exit code. Deferred
// cleanup runs before main exits.
func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer, p painter) int {
	fs := flag.NewFlagSet("fsprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		globs     = fs.String("glob", "", "Glob patterns (comma-separated, ** supported)")
		cwd       = fs.String("cwd", "", "Base directory for patterns (default: working directory)")
		lstat     = fs.Bool("lstat", false, "Do not follow symbolic links when classifying")
		dot       = fs.Bool("dot", false, "Let wildcards match dot files")
		abs       = fs.Bool("abs", false, "Print absolute paths")
		stdinTemp = fs.Bool("stdin-temp", false, "Copy stdin into a scoped temp file and report it")
		keep      = fs.Bool("keep", false, "Keep the -stdin-temp file after reporting")
		verbose   = fs.Bool("v", false, "Verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *globs == "" && !*stdinTemp {
		fmt.Fprintln(stderr, "Usage: fsprobe -glob <pattern[,pattern...]> [-cwd dir] [-lstat] [-dot] [-abs]")
		fmt.Fprintln(stderr, "       fsprobe -stdin-temp [-keep] < file")
		return 1
	}

	log := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		}
	}
	defer func() { _ = log.Sync() }()

	value.SetLogger(log)
	stream.SetLogger(log)
	tempfile.SetLogger(log)

	reg := tempfile.NewRegistry()
	defer func() { _ = reg.Close() }()

	cfg := config{
		registry:  reg,
		patterns:  splitPatterns(*globs),
		cwd:       *cwd,
		lstat:     *lstat,
		dot:       *dot,
		abs:       *abs,
		stdinTemp: *stdinTemp,
		keep:      *keep,
	}

	if err := run(context.Background(), cfg, stdin, stdout, p); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer, p painter) error {
	if len(cfg.patterns) > 0 {
		if err := listMatches(cfg, stdout, p); err != nil {
			return err
		}
	}
	if cfg.stdinTemp {
		if err := probeStdin(ctx, cfg, stdin, stdout, p); err != nil {
			return err
		}
	}
	return nil
}

func listMatches(cfg config, stdout io.Writer, p painter) error {
	matches, err := fsutil.GlobSync(cfg.patterns, fsutil.GlobOptions{
		Cwd:      cfg.cwd,
		Absolute: cfg.abs,
		Dot:      cfg.dot,
		NoFollow: cfg.lstat,
	})
	if err != nil {
		return fmt.Errorf("glob: %w", err)
	}

	fmt.Fprintf(stdout, "%s %s %s\n",
		p.header(fmt.Sprintf("%-*s", typeWidth, "TYPE")),
		p.header(fmt.Sprintf("%*s", sizeWidth, "SIZE")),
		p.header("PATH"))
	for _, m := range matches {
		target := m
		if !cfg.abs {
			target = filepath.Join(cfg.cwd, m)
		}
		writeEntry(stdout, p, m, target, cfg.lstat)
	}
	fmt.Fprintln(stdout, p.dim(fmt.Sprintf("%d match(es)", len(matches))))
	return nil
}

func probeStdin(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer, p painter) error {
	data, err := value.AsBuffer(ctx, stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	_, err = tempfile.WithSync(func(path string) (struct{}, error) {
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return struct{}{}, err
		}
		writeEntry(stdout, p, path, path, cfg.lstat)
		return struct{}{}, nil
	}, tempfile.WithPrefix("fsprobe-"), tempfile.WithKeep(cfg.keep), tempfile.WithRegistry(cfg.registry))
	if err != nil {
		return fmt.Errorf("stdin temp: %w", err)
	}
	return nil
}

// column widths; padding is applied before styling so escapes don't skew it
const (
	typeWidth = 16
	sizeWidth = 10
)

func writeEntry(w io.Writer, p painter, shown, target string, lstat bool) {
	typ, err := fsutil.TypeOf(target, lstat)
	if err != nil {
		fmt.Fprintf(w, "%s %*s %s\n", p.err(fmt.Sprintf("%-*s", typeWidth, "error")), sizeWidth, "-", shown)
		return
	}
	size := "-"
	if n, err := fsutil.Size(target, lstat); err == nil {
		size = fmt.Sprintf("%d", n)
	}
	fmt.Fprintf(w, "%s %*s %s\n", p.kind(typ, fmt.Sprintf("%-*s", typeWidth, typ)), sizeWidth, size, shown)
}

func splitPatterns(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
