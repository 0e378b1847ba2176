package fsops

import "strings"

// longPath prefixes an absolute Windows path so that it may exceed
// MAX_PATH: C:\a becomes \\?\C:\a and \\server\share becomes
// \\?\UNC\server\share. Already prefixed paths are returned unchanged.
func longPath(abs string) string {
	switch {
	case strings.HasPrefix(abs, `\\?\`), strings.HasPrefix(abs, `\\.\`):
		return abs
	case strings.HasPrefix(abs, `\\`):
		return `\\?\UNC\` + abs[2:]
	case len(abs) >= 3 && abs[1] == ':' && (abs[2] == '\\' || abs[2] == '/'):
		return `\\?\` + strings.ReplaceAll(abs, "/", `\`)
	default:
		return abs
	}
}
