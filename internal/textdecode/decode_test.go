package textdecode

import (
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func withFallbacks(t *testing.T, fb []namedEncoding) {
	t.Helper()
	orig := fallbacks
	fallbacks = fb
	t.Cleanup(func() { fallbacks = orig })
}

func TestDecodeUTF8PassThrough(t *testing.T) {
	in := "TCP    0.0.0.0:8080   0.0.0.0:0   LISTENING   500 — ok"
	if got := Decode([]byte(in)); got != in {
		t.Fatalf("utf-8 input changed: %q", got)
	}
}

func TestDecodeFallbackCodePage(t *testing.T) {
	withFallbacks(t, []namedEncoding{{name: "gbk", enc: simplifiedchinese.GBK}})
	gbk := []byte{0xD6, 0xD0, 0xCE, 0xC4}
	if got := Decode(gbk); got != "中文" {
		t.Fatalf("expected GBK decode, got %q", got)
	}
}

func TestDecodeLossy(t *testing.T) {
	withFallbacks(t, nil)
	got := Decode([]byte{'a', 0xff, 'b'})
	if got != "a�b" {
		t.Fatalf("expected replacement character, got %q", got)
	}
}

func TestLinesTrimsCarriageReturns(t *testing.T) {
	lines := Lines([]byte("one\r\ntwo\r\n"))
	if len(lines) != 3 || lines[0] != "one" || lines[1] != "two" || lines[2] != "" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}
