package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay unchanged before it is checked
// again. Editors often write a file in several steps.
const settleDelay = 100 * time.Millisecond

// Watch checks the files named by paths and reports each result, then
// keeps re-checking as files are created or written until ctx is done.
// Below a named directory every .lua file is watched, including those in
// directories created later. A named file is watched whatever its
// extension, and its siblings are not watched at all.
func (c *Checker) Watch(ctx context.Context, paths []string, report func(Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	named := make(map[string]bool)
	var trees []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		dirs := []string{filepath.Dir(path)}
		if info.IsDir() {
			if dirs, err = subdirs(path); err != nil {
				return err
			}
			trees = append(trees, filepath.Clean(path))
		} else {
			named[filepath.Clean(path)] = true
		}
		for _, dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
	}

	results, err := c.Run(ctx, paths)
	if err != nil {
		return err
	}
	for _, r := range results {
		report(r)
	}
	c.log.Infof("watching %d paths", len(paths))

	ready := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	// schedule checks name once it has settled.
	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[name]; ok {
			t.Reset(settleDelay)
			return
		}
		pending[name] = time.AfterFunc(settleDelay, func() {
			select {
			case ready <- name:
			case <-stop:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			c.log.Info("stopping watcher")
			return nil

		case path := <-ready:
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			if _, err := os.Stat(path); err != nil {
				continue
			}
			report(c.File(ctx, path))

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Clean(event.Name)
			inTree := withinAny(name, trees)
			if inTree && event.Has(fsnotify.Create) {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					c.watchNewDir(watcher, name, schedule)
					continue
				}
			}
			if named[name] || (inTree && isLuaFile(name)) {
				schedule(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Errorf("watcher: %s", err)
		}
	}
}

// watchNewDir starts watching a directory created under a watched tree.
// Files written into it before the watch took effect are checked too.
func (c *Checker) watchNewDir(watcher *fsnotify.Watcher, dir string, schedule func(string)) {
	if err := watcher.Add(dir); err != nil {
		c.log.Errorf("watch %s: %s", dir, err)
		return
	}
	dirs, err := subdirs(dir)
	if err != nil {
		c.log.Errorf("watcher: %s", err)
		return
	}
	for _, d := range dirs[1:] {
		if err := watcher.Add(d); err != nil {
			c.log.Errorf("watch %s: %s", d, err)
		}
	}
	c.log.Debugf("watching new directory %s", dir)

	files, err := Collect([]string{dir})
	if err != nil {
		c.log.Errorf("watcher: %s", err)
		return
	}
	for _, file := range files {
		schedule(file)
	}
}

// withinAny reports whether path lies below one of roots.
func withinAny(path string, roots []string) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// subdirs returns root and every directory below it.
func subdirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return dirs, nil
}
