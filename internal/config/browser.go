package config

import "time"

// BrowserConfig configures the headless browser used by the scraper.
type BrowserConfig struct {
	// Bin is the Chrome/Chromium binary path. Empty lets the launcher
	// resolve or download one.
	Bin string `yaml:"bin"`

	// DebuggerURL attaches to an already-running Chrome instead of
	// launching one.
	DebuggerURL string `yaml:"debugger_url"`

	Headless            bool `yaml:"headless"`
	ViewportWidth       int  `yaml:"viewport_width"`
	ViewportHeight      int  `yaml:"viewport_height"`
	NavigationTimeoutMs int  `yaml:"navigation_timeout_ms"`

	// RenderSettleMs is how long to wait after load for client-side
	// rendering before extracting fields.
	RenderSettleMs int `yaml:"render_settle_ms"`

	// ScrollSettleMs is how long to wait after scrolling for lazy-loaded
	// badge cards.
	ScrollSettleMs int `yaml:"scroll_settle_ms"`
}

// GetViewportWidth returns viewport width.
func (c BrowserConfig) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c BrowserConfig) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c BrowserConfig) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// RenderSettle returns the post-load settle delay.
func (c BrowserConfig) RenderSettle() time.Duration {
	if c.RenderSettleMs == 0 {
		return 3 * time.Second
	}
	return time.Duration(c.RenderSettleMs) * time.Millisecond
}

// ScrollSettle returns the post-scroll settle delay.
func (c BrowserConfig) ScrollSettle() time.Duration {
	if c.ScrollSettleMs == 0 {
		return 2 * time.Second
	}
	return time.Duration(c.ScrollSettleMs) * time.Millisecond
}
