package ports

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
)

// procNetBackend reads the kernel socket tables under root and maps socket
// inodes to pids with a single walk of every /proc/<pid>/fd directory.
type procNetBackend struct {
	root string
}

var procNetTables = []struct {
	name       string
	listenOnly bool
}{
	{"tcp", true},
	{"tcp6", true},
	{"udp", false},
	{"udp6", false},
}

func (b procNetBackend) Bindings(ctx context.Context) ([]Binding, error) {
	var rows []socketRow
	for _, table := range procNetTables {
		data, err := os.ReadFile(filepath.Join(b.root, "net", table.name))
		if err != nil {
			continue
		}
		rows = append(rows, parseProcNet(string(data), table.listenOnly)...)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owners := b.inodeOwners()
	out := make([]Binding, 0, len(rows))
	for _, row := range rows {
		pid, ok := owners[row.Inode]
		if !ok {
			continue
		}
		out = append(out, Binding{Port: row.Port, PID: pid})
	}
	return out, nil
}

// inodeOwners indexes socket inodes by the first pid found holding them.
// Unreadable fd directories (other users' processes) are skipped.
func (b procNetBackend) inodeOwners() map[uint64]uint32 {
	owners := make(map[uint64]uint32)
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return owners
	}
	for _, entry := range entries {
		pid, err := strconv.ParseUint(entry.Name(), 10, 32)
		if err != nil {
			continue
		}
		fdDir := filepath.Join(b.root, entry.Name(), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}
			inode, ok := parseSocketLink(link)
			if !ok {
				continue
			}
			if _, seen := owners[inode]; !seen {
				owners[inode] = uint32(pid)
			}
		}
	}
	return owners
}
