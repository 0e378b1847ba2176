// Package ui styles command output according to the terminal profile.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"ziro/internal/term"
)

// Palette, shared with the interactive views.
var (
	cyan    = lipgloss.Color("39")
	green   = lipgloss.Color("76")
	red     = lipgloss.Color("204")
	yellow  = lipgloss.Color("214")
	magenta = lipgloss.Color("170")
	blue    = lipgloss.Color("69")
	dim     = lipgloss.Color("243")
	faint   = lipgloss.Color("238")
)

// Theme renders styled fragments for one output stream.
type Theme struct {
	Profile term.Profile
	r       *lipgloss.Renderer

	title, success, errorS, warn, info, accent, blueS, muted, highlight lipgloss.Style
}

// NewTheme binds a theme to w. Colors are dropped when the profile says so.
func NewTheme(w io.Writer, p term.Profile) *Theme {
	r := lipgloss.NewRenderer(w)
	if p.NoColor || p.Plain {
		r.SetColorProfile(termenv.Ascii)
	}
	t := &Theme{Profile: p, r: r}
	t.title = r.NewStyle().Foreground(cyan).Bold(true)
	t.success = r.NewStyle().Foreground(green)
	t.errorS = r.NewStyle().Foreground(red)
	t.warn = r.NewStyle().Foreground(yellow)
	t.info = r.NewStyle().Foreground(cyan)
	t.accent = r.NewStyle().Foreground(magenta)
	t.blueS = r.NewStyle().Foreground(blue)
	t.muted = r.NewStyle().Foreground(dim)
	t.highlight = r.NewStyle().Foreground(yellow).Bold(true)
	return t
}

func (t *Theme) Title(s string) string     { return t.title.Render(s) }
func (t *Theme) Success(s string) string   { return t.success.Render(s) }
func (t *Theme) Error(s string) string     { return t.errorS.Render(s) }
func (t *Theme) Warn(s string) string      { return t.warn.Render(s) }
func (t *Theme) Info(s string) string      { return t.info.Render(s) }
func (t *Theme) Accent(s string) string    { return t.accent.Render(s) }
func (t *Theme) Blue(s string) string      { return t.blueS.Render(s) }
func (t *Theme) Muted(s string) string     { return t.muted.Render(s) }
func (t *Theme) Highlight(s string) string { return t.highlight.Render(s) }

// ErrorBold is used for banners ahead of destructive actions.
func (t *Theme) ErrorBold(s string) string { return t.errorS.Bold(true).Render(s) }

// Icon identifies a glyph with a Unicode and an ASCII rendition.
type Icon int

const (
	IconCheck Icon = iota
	IconCross
	IconLightning
	IconSearch
	IconWarning
	IconFire
	IconFolder
	IconFile
	IconLink
)

var icons = map[Icon][2]string{
	IconCheck:     {"✓", "+"},
	IconCross:     {"✗", "x"},
	IconLightning: {"⚡", "*"},
	IconSearch:    {"🔍", "?"},
	IconWarning:   {"⚠", "!"},
	IconFire:      {"🔥", "!"},
	IconFolder:    {"📁", "[D]"},
	IconFile:      {"📄", "[F]"},
	IconLink:      {"🔗", "->"},
}

// Glyph returns the bare icon text for the profile.
func (t *Theme) Glyph(i Icon) string {
	pair := icons[i]
	if t.Profile.ASCIIIcons || t.Profile.Plain {
		return pair[1]
	}
	return pair[0]
}

func (t *Theme) Check() string     { return t.success.Render(t.Glyph(IconCheck)) }
func (t *Theme) Cross() string     { return t.errorS.Render(t.Glyph(IconCross)) }
func (t *Theme) Lightning() string { return t.warn.Render(t.Glyph(IconLightning)) }
func (t *Theme) Search() string    { return t.info.Render(t.Glyph(IconSearch)) }
func (t *Theme) Warning() string   { return t.warn.Render(t.Glyph(IconWarning)) }
func (t *Theme) Fire() string      { return t.errorS.Render(t.Glyph(IconFire)) }

// Tree returns the branch and continuation prefixes for a tree row.
func (t *Theme) Tree(last bool) (branch, cont string) {
	if t.Profile.ASCIIIcons || t.Profile.Plain {
		if last {
			return "`-", "   "
		}
		return "|-", "|  "
	}
	if last {
		return "└─", "   "
	}
	return "├─", "│  "
}
