package ui

import (
	"fmt"
	"strconv"
	"strings"

	"ziro/internal/fault"
	"ziro/internal/fsops"
	"ziro/internal/lifecycle"
	"ziro/internal/ports"
)

// PreviewLimit is how many plan entries the deletion preview lists.
const PreviewLimit = 10

const cmdWidth = 60

// PortTree lists each requested port in order, with its owner or a
// "not in use" marker.
func (t *Theme) PortTree(requested []uint16, found map[uint16]ports.Info) string {
	if len(requested) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", t.Lightning(), t.Title("Port lookup"))
	for i, port := range requested {
		last := i == len(requested)-1
		info, ok := found[port]
		if !ok {
			branch, _ := t.Tree(last)
			fmt.Fprintf(&b, "%s %s %s %s\n", branch, t.Highlight(strconv.Itoa(int(port))), t.Cross(), t.Muted("(not in use)"))
		} else {
			t.portNode(&b, info, last)
		}
		if !last {
			_, cont := t.Tree(false)
			b.WriteString(strings.TrimRight(cont, " ") + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// PortList renders every bound port. Narrow or plain profiles get the
// compact table; others get the tree.
func (t *Theme) PortList(infos []ports.Info) string {
	if len(infos) == 0 {
		return t.Warn("No ports are in use")
	}
	if t.Profile.Narrow || t.Profile.Plain {
		return t.PortTable(infos)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n\n", t.Lightning(), t.Title("Ports in use"), t.Muted(fmt.Sprintf("(%d total)", len(infos))))
	for i, info := range infos {
		last := i == len(infos)-1
		t.portNode(&b, info, last)
		if !last {
			_, cont := t.Tree(false)
			b.WriteString(strings.TrimRight(cont, " ") + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// PortTable renders bound ports as a table.
func (t *Theme) PortTable(infos []ports.Info) string {
	headers := []string{"PORT", "PID", "NAME", "CPU", "MEMORY"}
	if !t.Profile.Narrow {
		headers = append(headers, "COMMAND")
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		p := info.Process
		row := []string{
			strconv.Itoa(int(info.Port)),
			strconv.FormatUint(uint64(p.PID), 10),
			p.DisplayName(),
			fmt.Sprintf("%.1f%%", p.CPUPercent),
			Bytes(p.MemoryBytes),
		}
		if !t.Profile.Narrow {
			row = append(row, Truncate(p.CommandLine(), cmdWidth))
		}
		rows = append(rows, row)
	}
	return t.Table(headers, rows)
}

func (t *Theme) portNode(b *strings.Builder, info ports.Info, last bool) {
	branch, cont := t.Tree(last)
	mid, _ := t.Tree(false)
	end, _ := t.Tree(true)
	p := info.Process
	fmt.Fprintf(b, "%s %s %s\n", branch, t.Highlight(strconv.Itoa(int(info.Port))), t.Check())
	fmt.Fprintf(b, "%s%s %s: %s (%s)\n", cont, mid, t.Info("process"), t.Success(p.DisplayName()), t.Muted(strconv.FormatUint(uint64(p.PID), 10)))
	fmt.Fprintf(b, "%s%s %s: %s\n", cont, mid, t.Info("command"), t.Muted(Truncate(p.CommandLine(), cmdWidth)))
	fmt.Fprintf(b, "%s%s %s: %s CPU, %s memory\n", cont, end, t.Info("resources"),
		t.Accent(fmt.Sprintf("%.1f%%", p.CPUPercent)), t.Accent(Bytes(p.MemoryBytes)))
}

// KillTargets lists the owners about to be force-killed.
func (t *Theme) KillTargets(targets []ports.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n%s\n", t.Fire(), t.ErrorBold("Force killing processes"), t.Title("Targets:"))
	for _, info := range targets {
		fmt.Fprintf(&b, "  port %s - %s (PID %s)\n",
			t.Highlight(strconv.Itoa(int(info.Port))),
			t.Success(info.Process.DisplayName()),
			t.Muted(strconv.FormatUint(uint64(info.Process.PID), 10)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// KillResults prints one line per outcome and, when forced, a count line.
func (t *Theme) KillResults(outcomes []lifecycle.KillOutcome, forced bool) string {
	verb := "Terminated"
	if forced {
		verb = "Force killed"
	}
	var b strings.Builder
	ok, failed := 0, 0
	for _, o := range outcomes {
		if o.Err == nil {
			ok++
			fmt.Fprintf(&b, "%s %s\n", t.Check(), t.Success(fmt.Sprintf("%s process %d", verb, o.PID)))
			continue
		}
		failed++
		fmt.Fprintf(&b, "%s %s: %v%s\n", t.Cross(), t.Error(fmt.Sprintf("Could not kill process %d", o.PID)), o.Err, t.hint(o.Err))
	}
	if forced {
		fmt.Fprintf(&b, "\n%s %s %s\n", t.Title("Done"), t.Success(fmt.Sprintf("ok: %d", ok)), t.Error(fmt.Sprintf("failed: %d", failed)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// LockTable shows who holds each inspected path.
func (t *Theme) LockTable(infos []lifecycle.LockInfo) string {
	headers := []string{"PATH", "STATE", "PID", "NAME"}
	if !t.Profile.Narrow {
		headers = append(headers, "COMMAND")
	}
	var rows [][]string
	for _, info := range infos {
		state := "free"
		if info.Locked {
			state = "locked"
		}
		if len(info.Holders) == 0 {
			row := []string{info.Path, state, "-", "-"}
			if !t.Profile.Narrow {
				row = append(row, "")
			}
			rows = append(rows, row)
			continue
		}
		for i, h := range info.Holders {
			path := info.Path
			if i > 0 {
				path, state = "", ""
			}
			row := []string{path, state, strconv.FormatUint(uint64(h.PID), 10), h.Name}
			if !t.Profile.Narrow {
				row = append(row, Truncate(h.Cmd, cmdWidth))
			}
			rows = append(rows, row)
		}
	}
	return t.Table(headers, rows)
}

// DeletionPreview summarises a plan and lists its first entries. The
// banner depends on whether the run is a dry run.
func (t *Theme) DeletionPreview(entries []fsops.Entry, dryRun bool) string {
	var b strings.Builder
	if dryRun {
		fmt.Fprintf(&b, "%s %s\n", t.Search(), t.Info("Dry run: nothing will be deleted"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", t.Warning(), t.ErrorBold("About to delete"))
	}
	files, dirs := fsops.Counts(entries)
	fmt.Fprintf(&b, "%s %s %s %s\n\n",
		t.Title("Summary:"),
		t.Success(fmt.Sprintf("%d files", files)),
		t.Blue(fmt.Sprintf("%d directories", dirs)),
		t.Warn("total "+Bytes(fsops.TotalSize(entries))))

	for i, e := range entries {
		if i == PreviewLimit {
			fmt.Fprintf(&b, "%s\n", t.Muted(fmt.Sprintf("  ... and %d more", len(entries)-PreviewLimit)))
			break
		}
		b.WriteString("  " + t.entryLine(e) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (t *Theme) entryLine(e fsops.Entry) string {
	switch {
	case e.IsDir:
		return fmt.Sprintf("%s %s %s", t.Blue(t.Glyph(IconFolder)), e.Path, t.Blue("directory"))
	case e.IsSymlink:
		return fmt.Sprintf("%s %s %s", t.Accent(t.Glyph(IconLink)), e.Path, t.Accent("symlink"))
	default:
		return fmt.Sprintf("%s %s %s %s", t.Success(t.Glyph(IconFile)), e.Path, t.Success("file"), t.Muted("("+Bytes(e.Size)+")"))
	}
}

// RemovalLine formats one result for verbose output.
func (t *Theme) RemovalLine(r fsops.Result, dryRun bool) string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s %v%s", t.Cross(), t.Error("could not remove "+r.Entry.Path), r.Err, t.hint(r.Err))
	}
	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	if r.Bulk {
		verb += " (bulk)"
	}
	return fmt.Sprintf("%s %s", t.Check(), t.Muted(verb+" "+r.Entry.Path))
}

// RemovalSummary prints the counts and, outside verbose mode, the failures
// that verbose output would already have shown.
func (t *Theme) RemovalSummary(results []fsops.Result, dryRun, verbose bool) string {
	s := fsops.Summarize(results)
	var b strings.Builder
	title := "Done"
	if dryRun {
		title = "Dry run done"
	}
	fmt.Fprintf(&b, "%s %s %s %s\n", t.Title(title),
		t.Success(fmt.Sprintf("ok: %d", s.Removed)),
		t.Error(fmt.Sprintf("failed: %d", s.Failed)),
		t.Muted("("+Bytes(s.Bytes)+")"))
	if !verbose {
		for _, r := range results {
			if r.Err != nil {
				b.WriteString(t.RemovalLine(r, dryRun) + "\n")
			}
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (t *Theme) hint(err error) string {
	if s := fault.Suggestion(fault.KindOf(err)); s != "" {
		return " " + t.Muted("("+s+")")
	}
	return ""
}
