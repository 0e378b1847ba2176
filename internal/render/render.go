// Package render paints line-oriented frames onto a terminal, rewriting only
// the lines that changed since the previous frame.
package render

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Frame is one fully composed screen, top to bottom.
type Frame []string

// OpKind is what the renderer does with one screen row.
type OpKind int

const (
	// Advance leaves the row as is and moves to the next one.
	Advance OpKind = iota
	// Rewrite clears the row and prints Op.Line.
	Rewrite
	// Clear blanks a row left over from a longer previous frame.
	Clear
)

// Op is one row operation.
type Op struct {
	Kind OpKind
	Line string
}

// Diff compares two frames row by row. It is a pure function.
func Diff(prev, next Frame) []Op {
	ops := make([]Op, 0, max(len(prev), len(next)))
	for i, line := range next {
		if i < len(prev) && prev[i] == line {
			ops = append(ops, Op{Kind: Advance})
			continue
		}
		ops = append(ops, Op{Kind: Rewrite, Line: line})
	}
	for i := len(next); i < len(prev); i++ {
		ops = append(ops, Op{Kind: Clear})
	}
	return ops
}

// Rewrites counts the ops that touch the screen.
func Rewrites(ops []Op) int {
	n := 0
	for _, op := range ops {
		if op.Kind != Advance {
			n++
		}
	}
	return n
}

// Renderer draws successive frames.
type Renderer interface {
	Render(Frame) error
}

// Plain prints every line of every frame. It is used when the terminal
// cannot be trusted with cursor movement.
type Plain struct {
	w io.Writer
}

// NewPlain returns a renderer writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) Render(frame Frame) error {
	for _, line := range frame {
		if _, err := io.WriteString(p.w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Incremental repaints in place using cursor-control sequences. The
// previous frame is the only state it keeps.
type Incremental struct {
	w    *errWriter
	out  *termenv.Output
	prev Frame
}

// NewIncremental returns a renderer writing to w.
func NewIncremental(w io.Writer) *Incremental {
	ew := &errWriter{w: w}
	return &Incremental{w: ew, out: termenv.NewOutput(ew)}
}

func (r *Incremental) Render(frame Frame) error {
	r.w.err = nil
	r.out.HideCursor()
	r.out.MoveCursor(1, 1)
	for _, op := range Diff(r.prev, frame) {
		switch op.Kind {
		case Advance:
			r.out.CursorNextLine(1)
		case Rewrite:
			r.out.ClearLine()
			io.WriteString(r.w, op.Line+"\r\n")
		case Clear:
			r.out.ClearLine()
			io.WriteString(r.w, "\r\n")
		}
	}
	fmt.Fprintf(r.w, termenv.CSI+termenv.EraseDisplaySeq, 0)
	r.out.ShowCursor()
	r.prev = append(r.prev[:0], frame...)
	return r.w.err
}

// EnterAltScreen switches to the alternate screen and clears it.
func (r *Incremental) EnterAltScreen() error {
	r.w.err = nil
	r.out.AltScreen()
	r.out.ClearScreen()
	r.prev = nil
	return r.w.err
}

// Restore shows the cursor and, when alt is set, leaves the alternate screen.
func (r *Incremental) Restore(alt bool) error {
	r.w.err = nil
	if alt {
		r.out.ExitAltScreen()
	}
	r.out.ShowCursor()
	return r.w.err
}

// errWriter remembers the first write error so cursor helpers, which do not
// return errors, can still fail a render.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
