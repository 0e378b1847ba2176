// Package term decides once per run what the attached terminal can do.
package term

import (
	"os"
	"runtime"
	"strings"

	xterm "golang.org/x/term"
)

// Profile is the set of output capabilities every renderer consults.
type Profile struct {
	Plain       bool
	ASCIIIcons  bool
	NoColor     bool
	Narrow      bool
	AltScreen   bool
	Incremental bool
}

// Full is the profile of a capable, interactive UTF-8 terminal.
func Full() Profile {
	return Profile{AltScreen: true, Incremental: true}
}

// PlainProfile is the fully degraded profile.
func PlainProfile() Profile {
	return Profile{Plain: true, ASCIIIcons: true, NoColor: true, Narrow: true}
}

// Flags carries the command-line overrides.
type Flags struct {
	Plain   bool
	ASCII   bool
	NoColor bool
	Narrow  bool
}

// Env abstracts the process environment for detection.
type Env struct {
	Getenv      func(string) string
	IsTerminal  bool
	Windows     bool
	VTSupported bool
	UTF8Console bool
}

// SystemEnv captures the environment of the running process.
func SystemEnv() Env {
	return Env{
		Getenv:      os.Getenv,
		IsTerminal:  xterm.IsTerminal(int(os.Stdout.Fd())),
		Windows:     runtime.GOOS == "windows",
		VTSupported: virtualTerminalEnabled(),
		UTF8Console: utf8Console(),
	}
}

// StdinIsTerminal reports whether prompts can read keystrokes.
func StdinIsTerminal() bool {
	return xterm.IsTerminal(int(os.Stdin.Fd()))
}

// Detect combines explicit flags, ZIRO_* variables and terminal probing.
// Anything that looks unsafe degrades to the plain profile.
func Detect(flags Flags, env Env) Profile {
	p := Full()
	p.Plain = flags.Plain || truthy(env, "ZIRO_PLAIN")
	p.ASCIIIcons = flags.ASCII || truthy(env, "ZIRO_ASCII_ICONS")
	p.NoColor = flags.NoColor || truthy(env, "ZIRO_NO_COLOR") || env.Getenv("NO_COLOR") != ""
	p.Narrow = flags.Narrow || truthy(env, "ZIRO_NARROW")

	if p.Plain || !env.IsTerminal || !utf8Locale(env) || dumbTerminal(env) ||
		(env.Windows && !env.VTSupported && !looksModern(env)) {
		return PlainProfile()
	}
	return p
}

func truthy(env Env, key string) bool {
	switch strings.ToLower(strings.TrimSpace(env.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func dumbTerminal(env Env) bool {
	return strings.EqualFold(strings.TrimSpace(env.Getenv("TERM")), "dumb")
}

// utf8Locale checks the first locale variable that is set. With none set,
// unix terminals are assumed UTF-8; Windows asks the console code page.
func utf8Locale(env Env) bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.ToLower(env.Getenv(key))
		if v == "" {
			continue
		}
		if strings.Contains(v, "utf-8") || strings.Contains(v, "utf8") || strings.Contains(v, "65001") {
			return true
		}
		if !env.Windows {
			return false
		}
		break
	}
	if env.Windows {
		return env.UTF8Console
	}
	return true
}

var modernPrograms = []string{
	"vscode", "hyper", "terminus", "windowsterminal", "warp", "wt", "warpterminal",
	"iterm.app", "alacritty", "kitty", "wezterm",
}

func looksModern(env Env) bool {
	for _, key := range []string{"WT_SESSION", "ConEmuANSI", "ANSICON", "COLORTERM"} {
		if env.Getenv(key) != "" {
			return true
		}
	}
	program := strings.ToLower(env.Getenv("TERM_PROGRAM"))
	for _, p := range modernPrograms {
		if program == p {
			return true
		}
	}
	t := strings.ToLower(env.Getenv("TERM"))
	for _, marker := range []string{"xterm", "screen", "tmux", "256color", "cygwin"} {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
