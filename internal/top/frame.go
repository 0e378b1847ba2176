package top

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ziro/internal/procdir"
	"ziro/internal/render"
	"ziro/internal/ui"
)

const (
	rankW   = 4
	nameW   = 26
	pidW    = 10
	memW    = 10
	memPctW = 7
	cpuW    = 8
	cmdW    = 60
	barW    = 30
)

// Status is the header information for one tick.
type Status struct {
	Tick     uint64
	Interval time.Duration
	Memory   procdir.MemoryStats
}

// Compose lays out one monitor frame.
func Compose(th *ui.Theme, rows []Row, st Status, showCPU, showCmd bool) render.Frame {
	glyph := "●"
	if st.Tick%2 == 1 {
		glyph = "◐"
	}
	if th.Profile.ASCIIIcons {
		glyph = "*"
		if st.Tick%2 == 1 {
			glyph = "o"
		}
	}

	pct := st.Memory.UsedPercent()
	frame := render.Frame{
		fmt.Sprintf("%s %s %s", th.Lightning(), th.Title("Process memory"), th.Muted("["+glyph+"]")),
		fmt.Sprintf("tick: %d | interval: %.1fs | processes: %d | memory: %s / %s (%.1f%%) | %s",
			st.Tick, st.Interval.Seconds(), len(rows),
			ui.Bytes(st.Memory.Used), ui.Bytes(st.Memory.Total), pct,
			th.Muted("Ctrl+C to quit")),
		th.Muted("[" + Bar(pct, barW, th.Profile.ASCIIIcons) + "]"),
		"",
	}

	header := strings.Join([]string{
		ui.PadRight("#", rankW),
		ui.PadRight("NAME", nameW),
		ui.PadRight("PID", pidW),
		ui.PadLeft("MEMORY", memW),
		ui.PadLeft("MEM%", memPctW),
		ui.PadLeft("CPU", cpuW),
	}, " ")
	if showCmd {
		header += " COMMAND"
	}
	frame = append(frame, header, th.Muted(strings.Repeat("-", rankW+nameW+pidW+memW+memPctW+cpuW+5)))

	for i, row := range rows {
		frame = append(frame, composeRow(th, i+1, row, showCPU, showCmd))
	}
	return frame
}

func composeRow(th *ui.Theme, rank int, row Row, showCPU, showCmd bool) string {
	rankCell := ui.PadRight(strconv.Itoa(rank), rankW)
	switch rank {
	case 1:
		rankCell = th.Highlight(rankCell)
	case 2:
		rankCell = th.Warn(rankCell)
	case 3:
		rankCell = th.Info(rankCell)
	default:
		rankCell = th.Muted(rankCell)
	}
	cpu := "-"
	if showCPU {
		cpu = fmt.Sprintf("%.1f%%", row.CPU)
	}
	line := strings.Join([]string{
		rankCell,
		th.Success(ui.PadRight(ui.Truncate(row.Name, nameW-2), nameW)),
		th.Muted(ui.PadRight(strconv.FormatUint(uint64(row.PID), 10), pidW)),
		th.Warn(ui.PadLeft(ui.Bytes(row.MemoryBytes), memW)),
		th.Warn(ui.PadLeft(fmt.Sprintf("%.1f%%", row.MemoryPercent), memPctW)),
		th.Accent(ui.PadLeft(cpu, cpuW)),
	}, " ")
	if showCmd && row.Cmd != "" {
		line += " " + th.Muted(ui.Truncate(row.Cmd, cmdW))
	}
	return line
}

// Bar draws a width-cell gauge filled to pct percent.
func Bar(pct float64, width int, ascii bool) string {
	pct = min(max(pct, 0), 100)
	filled := int(pct/100*float64(width) + 0.5)
	empty := "·"
	if ascii {
		empty = "."
	}
	return strings.Repeat("=", filled) + strings.Repeat(empty, width-filled)
}
