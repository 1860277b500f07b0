package browser

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// downloadBrowser fetches a Chromium build into the rod cache unless one is
// already there, and returns the executable path.
func downloadBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("browser: downloading chromium: %w", err)
	}
	return path, nil
}
