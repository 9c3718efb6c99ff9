// Package browser opens build pages in the user's web browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupportedURL is returned for anything but an absolute http(s) URL.
var ErrUnsupportedURL = errors.New("only http and https URLs can be opened")

// execCommand is overridden in tests to avoid launching browsers.
var execCommand = func(name string, args ...string) cmdRunner {
	return exec.Command(name, args...)
}

type cmdRunner interface {
	Start() error
}

// Open opens rawURL in the browser named by $BROWSER, or the platform
// default when unset.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}

	name, args := command(runtime.GOOS, os.Getenv("BROWSER"), u.String())
	return execCommand(name, args...).Start()
}

func command(goos, override, target string) (string, []string) {
	if fields := strings.Fields(override); len(fields) > 0 {
		return fields[0], append(fields[1:], target)
	}

	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}
