package server

import (
	"fmt"
	"time"

	"github.com/pkg/browser"
)

// BrowserDelay is how long OpenBrowserAfter waits before launching.
const BrowserDelay = 500 * time.Millisecond

var openURL = browser.OpenURL

// OpenBrowser opens url in the user's default browser.
func OpenBrowser(url string) error {
	if err := openURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// OpenBrowserAfter opens url after delay without blocking. Failures are
// passed to onErr.
func OpenBrowserAfter(url string, delay time.Duration, onErr func(error)) *time.Timer {
	return time.AfterFunc(delay, func() {
		if err := OpenBrowser(url); err != nil && onErr != nil {
			onErr(err)
		}
	})
}
