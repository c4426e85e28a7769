// Package check parses Lua files in bulk and reports their syntax errors.
package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dhamidi/luast/lua/parser"
	"github.com/tliron/commonlog"
)

// Result is the outcome of checking one file. Err is nil when the file
// parsed.
type Result struct {
	Path string
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// String formats the result the way compilers report errors, as
// path:line:column: message.
func (r Result) String() string {
	if r.Err == nil {
		return r.Path + ": ok"
	}
	var syntaxErr *parser.SyntaxError
	if errors.As(r.Err, &syntaxErr) {
		return fmt.Sprintf("%s:%d:%d: %s", r.Path, syntaxErr.Line, syntaxErr.Column, syntaxErr.Message)
	}
	return fmt.Sprintf("%s: %v", r.Path, r.Err)
}

type Checker struct {
	timeout time.Duration
	workers int
	opts    []parser.Option
	log     commonlog.Logger
}

// NewChecker returns a checker that gives each file at most timeout to
// parse and runs workers parses at once. Zero values pick defaults.
func NewChecker(timeout time.Duration, workers int, opts ...parser.Option) *Checker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Checker{
		timeout: timeout,
		workers: workers,
		opts:    opts,
		log:     commonlog.GetLogger("luast.check"),
	}
}

// Collect expands directories in paths to the .lua files below them.
// Plain files are kept whatever their extension.
func Collect(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isLuaFile(p) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func isLuaFile(path string) bool {
	return filepath.Ext(path) == ".lua"
}

// Run checks every file named by paths and returns the results in the order
// Collect lists the files.
func (c *Checker) Run(ctx context.Context, paths []string) ([]Result, error) {
	files, err := Collect(paths)
	if err != nil {
		return nil, err
	}
	c.log.Debugf("checking %d files with %d workers", len(files), c.workers)

	results := make([]Result, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.File(ctx, files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// File parses one file, giving up once the checker's timeout passes.
func (c *Checker) File(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("read file: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		opts := append([]parser.Option{parser.WithFile(path)}, c.opts...)
		_, err := parser.ParseString(string(data), opts...)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			c.log.Debugf("%s: %s", path, err)
		}
		return Result{Path: path, Err: err}
	case <-ctx.Done():
		return Result{Path: path, Err: fmt.Errorf("timeout parsing %s", path)}
	}
}
