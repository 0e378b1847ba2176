// Package fsops plans and executes removals of files and directory trees.
package fsops

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ziro/internal/fault"
)

// Entry is one filesystem object scheduled for removal.
type Entry struct {
	Path      string
	IsDir     bool
	Size      uint64
	IsSymlink bool
	// Root marks entries named directly by the caller.
	Root bool
}

// Depth counts the path components of e.
func (e Entry) Depth() int {
	clean := filepath.Clean(e.Path)
	return strings.Count(filepath.ToSlash(clean), "/") + 1
}

// Plan walks paths and returns one entry per object to remove. A directory
// entry always comes after the entries of its descendants. Symlinks are
// never followed.
func Plan(paths []string, recursive bool) ([]Entry, error) {
	p := planner{seen: make(map[string]struct{})}
	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			return nil, fault.Wrap("plan", path, err)
		}
		if err := p.addRoot(path, info, recursive); err != nil {
			return nil, err
		}
	}
	return p.entries, nil
}

type planner struct {
	entries []Entry
	seen    map[string]struct{}
}

func (p *planner) add(e Entry) {
	key := e.Path
	if abs, err := filepath.Abs(e.Path); err == nil {
		key = abs
	}
	if _, dup := p.seen[key]; dup {
		return
	}
	p.seen[key] = struct{}{}
	p.entries = append(p.entries, e)
}

func (p *planner) addRoot(path string, info os.FileInfo, recursive bool) error {
	symlink := info.Mode()&os.ModeSymlink != 0
	if !info.IsDir() || symlink {
		p.add(Entry{Path: path, Size: uint64(info.Size()), IsSymlink: symlink, Root: true})
		return nil
	}
	if !recursive {
		empty, err := isEmptyDir(path)
		if err != nil {
			return fault.Wrap("plan", path, err)
		}
		if !empty {
			return fault.New(fault.DirectoryNotEmpty, "plan", path, errors.New("directory is not empty; recursive removal required"))
		}
		p.add(Entry{Path: path, IsDir: true, Root: true})
		return nil
	}
	if err := p.walk(path, []string{realPath(path)}); err != nil {
		return err
	}
	p.add(Entry{Path: path, IsDir: true, Root: true})
	return nil
}

// walk appends the descendants of dir. ancestors holds the resolved paths
// of dir and every directory above it in this walk.
func (p *planner) walk(dir string, ancestors []string) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return fault.Wrap("read directory", dir, err)
	}
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		info, err := os.Lstat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fault.Wrap("plan", path, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if target, ok := linkTarget(path); ok && isAncestor(target, ancestors) {
				slog.Warn("symlink points at an ancestor; removing the link only", "path", path, "target", target)
			}
			p.add(Entry{Path: path, Size: uint64(info.Size()), IsSymlink: true})
			continue
		}
		if info.IsDir() {
			if err := p.walk(path, append(ancestors, realPath(path))); err != nil {
				return err
			}
			p.add(Entry{Path: path, IsDir: true})
			continue
		}
		p.add(Entry{Path: path, Size: uint64(info.Size())})
	}
	return nil
}

func isEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func linkTarget(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", false
	}
	return abs, true
}

func isAncestor(target string, ancestors []string) bool {
	for _, a := range ancestors {
		if target == a {
			return true
		}
	}
	return false
}

// Order sorts entries for execution: files before directories, deeper
// before shallower, original order otherwise.
func Order(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsDir != b.IsDir {
			return !a.IsDir
		}
		return a.Depth() > b.Depth()
	})
	return out
}

// TotalSize sums the sizes of entries.
func TotalSize(entries []Entry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Size
	}
	return total
}

// Counts returns the number of file and directory entries.
func Counts(entries []Entry) (files, dirs int) {
	for _, e := range entries {
		if e.IsDir {
			dirs++
		} else {
			files++
		}
	}
	return files, dirs
}

func (e Entry) String() string {
	if e.IsDir {
		return fmt.Sprintf("%s%c", e.Path, filepath.Separator)
	}
	return e.Path
}
