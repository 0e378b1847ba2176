package term

import "testing"

func fakeEnv(vars map[string]string) Env {
	return Env{
		Getenv:      func(k string) string { return vars[k] },
		IsTerminal:  true,
		VTSupported: true,
		UTF8Console: true,
	}
}

func TestDetectCapableTerminal(t *testing.T) {
	p := Detect(Flags{}, fakeEnv(map[string]string{"LANG": "en_US.UTF-8", "TERM": "xterm-256color"}))
	if p != Full() {
		t.Fatalf("expected full profile, got %+v", p)
	}
}

func TestDetectFlagsAndEnv(t *testing.T) {
	p := Detect(Flags{ASCII: true}, fakeEnv(map[string]string{"NO_COLOR": "1", "ZIRO_NARROW": "yes"}))
	if !p.ASCIIIcons || !p.NoColor || !p.Narrow || p.Plain {
		t.Fatalf("unexpected profile %+v", p)
	}
	if !p.Incremental || !p.AltScreen {
		t.Fatalf("cosmetic overrides must keep cursor control: %+v", p)
	}
}

func TestDetectDegradesToPlain(t *testing.T) {
	cases := map[string]Env{
		"plain flag env": fakeEnv(map[string]string{"ZIRO_PLAIN": "true"}),
		"non utf-8":      fakeEnv(map[string]string{"LANG": "C"}),
		"dumb":           fakeEnv(map[string]string{"TERM": "dumb"}),
	}
	piped := fakeEnv(nil)
	piped.IsTerminal = false
	cases["not a tty"] = piped

	legacy := fakeEnv(nil)
	legacy.Windows = true
	legacy.VTSupported = false
	cases["legacy console"] = legacy

	for name, env := range cases {
		if p := Detect(Flags{}, env); p != PlainProfile() {
			t.Fatalf("%s: expected plain profile, got %+v", name, p)
		}
	}
}

func TestDetectWindowsModernWithoutVT(t *testing.T) {
	env := fakeEnv(map[string]string{"WT_SESSION": "abc"})
	env.Windows = true
	env.VTSupported = false
	if p := Detect(Flags{}, env); p.Plain {
		t.Fatalf("Windows Terminal should not degrade: %+v", p)
	}
}

func TestLocalePrecedence(t *testing.T) {
	env := fakeEnv(map[string]string{"LC_ALL": "en_US.UTF-8", "LANG": "C"})
	if !utf8Locale(env) {
		t.Fatalf("LC_ALL should win over LANG")
	}
	env = fakeEnv(map[string]string{"LANG": "zh_CN.GBK"})
	env.Windows = true
	env.UTF8Console = true
	if !utf8Locale(env) {
		t.Fatalf("windows falls back to the console code page")
	}
}
