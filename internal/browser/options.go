package browser

import (
	"time"

	"github.com/charmbracelet/log"
)

// config holds internal configuration for a Session.
type config struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	logger       *log.Logger
}

func defaultConfig() config {
	return config{
		timeout:  30 * time.Second,
		headless: "new",
	}
}

// Option configures a [Session].
type Option func(*config)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default chromedp searches the standard locations.
func WithChromePath(path string) Option {
	return func(c *config) {
		c.chromePath = path
	}
}

// WithTimeout bounds a single measurement or print. Defaults to 30 seconds;
// zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox, needed when running as root
// inside containers.
func WithNoSandbox() Option {
	return func(c *config) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a compatible Chromium when no executable path is
// configured.
func WithAutoDownload() Option {
	return func(c *config) {
		c.autoDownload = true
	}
}

// WithLogger sets the logger for browser lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
