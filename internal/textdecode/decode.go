// Package textdecode turns raw command output into text without ever failing.
package textdecode

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// fallbacks lists the legacy code pages tried, in order, when output is not
// valid UTF-8. It is platform specific; see fallback_*.go.
var fallbacks []namedEncoding

type namedEncoding struct {
	name string
	enc  encoding.Encoding
}

// Decode returns out as a string. Valid UTF-8 passes through unchanged; otherwise
// the platform code pages are tried and, as a last resort, invalid sequences
// are replaced with U+FFFD and a diagnostic is logged.
func Decode(out []byte) string {
	if utf8.Valid(out) {
		return string(out)
	}
	for _, fb := range fallbacks {
		if text, ok := tryDecode(fb.enc, out); ok {
			slog.Debug("decoded command output with fallback code page", "encoding", fb.name, "bytes", len(out))
			return text
		}
	}
	text := strings.ToValidUTF8(string(out), string(utf8.RuneError))
	if strings.ContainsRune(text, utf8.RuneError) {
		slog.Warn("command output contains non UTF-8 bytes; display may be garbled", "bytes", len(out))
	}
	return text
}

func tryDecode(enc encoding.Encoding, out []byte) (string, bool) {
	decoded, err := enc.NewDecoder().Bytes(out)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(decoded) || strings.ContainsRune(string(decoded), utf8.RuneError) {
		return "", false
	}
	return string(decoded), true
}

// Lines decodes out and splits it into lines with trailing CR removed.
func Lines(out []byte) []string {
	text := Decode(out)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
