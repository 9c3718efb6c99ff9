package browser

import (
	"errors"
	"reflect"
	"testing"
)

type mockCmd struct {
	name string
	args []string
	err  error
}

func (m *mockCmd) Start() error {
	return m.err
}

func captureExec(t *testing.T, err error) **mockCmd {
	t.Helper()

	original := execCommand
	t.Cleanup(func() { execCommand = original })

	var captured *mockCmd
	execCommand = func(name string, args ...string) cmdRunner {
		captured = &mockCmd{name: name, args: args, err: err}
		return captured
	}

	return &captured
}

func TestOpen(t *testing.T) {
	t.Setenv("BROWSER", "")
	captured := captureExec(t, nil)

	url := "https://tc.example.com/viewLog.html?buildId=42"
	if err := Open(url); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if *captured == nil {
		t.Fatal("expected command to be executed")
	}

	args := (*captured).args
	if args[len(args)-1] != url {
		t.Errorf("expected URL as last arg, got %v", args)
	}
}

func TestOpen_BrowserOverride(t *testing.T) {
	t.Setenv("BROWSER", "firefox --new-tab")
	captured := captureExec(t, nil)

	if err := Open("http://tc.local/build/1"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	got := *captured
	if got.name != "firefox" {
		t.Errorf("expected firefox, got %q", got.name)
	}
	want := []string{"--new-tab", "http://tc.local/build/1"}
	if !reflect.DeepEqual(got.args, want) {
		t.Errorf("expected args %v, got %v", want, got.args)
	}
}

func TestOpen_RejectsUnsupportedURLs(t *testing.T) {
	captured := captureExec(t, nil)

	for _, url := range []string{"", "not a valid url", "file:///etc/passwd", "javascript:alert(1)", "https://"} {
		err := Open(url)
		if !errors.Is(err, ErrUnsupportedURL) {
			t.Errorf("Open(%q) = %v, want ErrUnsupportedURL", url, err)
		}
	}

	if *captured != nil {
		t.Error("no command should run for rejected URLs")
	}
}

func TestOpen_StartError(t *testing.T) {
	t.Setenv("BROWSER", "")
	boom := errors.New("exec: not found")
	captureExec(t, boom)

	if err := Open("https://example.com"); !errors.Is(err, boom) {
		t.Errorf("expected start error, got %v", err)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"https://x"}},
		{"linux", "xdg-open", []string{"https://x"}},
		{"freebsd", "xdg-open", []string{"https://x"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://x"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := command(tt.goos, "", "https://x")
			if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("command(%q) = %s %v, want %s %v", tt.goos, name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}
