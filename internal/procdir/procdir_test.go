package procdir

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotImmutableCopy(t *testing.T) {
	snap := NewSnapshot([]Record{
		{PID: 30, Name: "c"},
		{PID: 10, Name: "a", Cmd: []string{"/usr/bin/a", "--flag"}},
		{PID: 20, Name: "b"},
	})
	if snap.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", snap.Len())
	}
	recs := snap.Records()
	if recs[0].PID != 10 || recs[1].PID != 20 || recs[2].PID != 30 {
		t.Fatalf("records not ordered by pid: %+v", recs)
	}
	recs[0].Name = "mutated"
	if r, _ := snap.Get(10); r.Name != "a" {
		t.Fatalf("snapshot was mutated through Records(): %q", r.Name)
	}
	if snap.Has(99) {
		t.Fatalf("unexpected pid 99")
	}
}

func TestNilSnapshotIsEmpty(t *testing.T) {
	var snap *Snapshot
	if snap.Len() != 0 || snap.Has(1) || snap.Records() != nil {
		t.Fatalf("nil snapshot should behave as empty")
	}
}

func TestRecordHelpers(t *testing.T) {
	r := Record{Cmd: []string{`C:\tools\nginx.exe`, "-c", "conf"}}
	if r.DisplayName() != "nginx.exe" {
		t.Fatalf("unexpected display name %q", r.DisplayName())
	}
	if r.CommandLine() != `C:\tools\nginx.exe -c conf` {
		t.Fatalf("unexpected command line %q", r.CommandLine())
	}
	if (Record{}).DisplayName() != "unknown" {
		t.Fatalf("empty record should be unknown")
	}
	if (Record{Name: "sshd", Cmd: []string{"/usr/sbin/sshd"}}).DisplayName() != "sshd" {
		t.Fatalf("name should win over argv[0]")
	}
}

func TestMemoryStatsPercent(t *testing.T) {
	if (MemoryStats{}).UsedPercent() != 0 {
		t.Fatalf("zero total must give 0%%")
	}
	if got := (MemoryStats{Total: 200, Used: 50}).UsedPercent(); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

func TestReadProcCmdlineFromFakeRoot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "4242")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cmdline"), []byte("nginx\x00-g\x00daemon off;\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	orig := procRoot
	procRoot = root
	t.Cleanup(func() { procRoot = orig })

	args := fallbackCmdline(4242)
	if len(args) != 3 || args[0] != "nginx" || args[2] != "daemon off;" {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestSystemSeesCurrentProcess(t *testing.T) {
	sys := NewSystem()
	ok, err := sys.Exists(context.Background(), uint32(os.Getpid()))
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatalf("current process should exist")
	}
	rec, found, err := sys.Lookup(context.Background(), uint32(os.Getpid()))
	if err != nil || !found {
		t.Fatalf("Lookup self: found=%v err=%v", found, err)
	}
	if rec.PID != uint32(os.Getpid()) {
		t.Fatalf("unexpected pid %d", rec.PID)
	}
}
