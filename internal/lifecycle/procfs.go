package lifecycle

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// procfsDetector finds holders by reading every /proc/<pid>/fd link and
// /proc/<pid>/cwd. One scan indexes every open path, so a removal that checks
// thousands of entries reuses the index while it is younger than ttl.
type procfsDetector struct {
	root string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	scanned time.Time
	index   map[string][]uint32
}

func newProcfsDetector(root string) *procfsDetector {
	return &procfsDetector{root: root, ttl: time.Second, now: time.Now}
}

func (d *procfsDetector) IsLocked(path string) bool {
	return len(d.FindHolders(path)) > 0
}

func (d *procfsDetector) FindHolders(path string) []uint32 {
	index, ok := d.lookupIndex()
	if !ok {
		return lsofHolders(path)
	}
	return index[filepath.Clean(path)]
}

func (d *procfsDetector) lookupIndex() (map[string][]uint32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if d.index != nil && now.Sub(d.scanned) < d.ttl {
		return d.index, true
	}
	index, err := scanProcfs(d.root)
	if err != nil {
		return nil, false
	}
	d.index = index
	d.scanned = now
	return index, true
}

const deletedSuffix = " (deleted)"

// scanProcfs maps each open path to the pids holding it. Processes whose fd
// directory cannot be read are skipped.
func scanProcfs(root string) (map[string][]uint32, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	index := make(map[string][]uint32)
	add := func(link string, pid uint32) {
		if link == "" || !filepath.IsAbs(link) || strings.HasSuffix(link, deletedSuffix) {
			return
		}
		pids := index[link]
		if len(pids) > 0 && pids[len(pids)-1] == pid {
			return
		}
		index[link] = append(pids, pid)
	}

	for _, entry := range entries {
		pid, ok := parsePID(entry.Name())
		if !ok {
			continue
		}
		procDir := filepath.Join(root, entry.Name())
		if cwd, err := os.Readlink(filepath.Join(procDir, "cwd")); err == nil {
			add(cwd, pid)
		}
		fdDir := filepath.Join(procDir, "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}
			add(link, pid)
		}
	}
	return index, nil
}
