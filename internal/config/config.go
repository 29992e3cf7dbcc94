package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/deskpager/internal/desktop"
	"github.com/1broseidon/deskpager/internal/logging"
	"github.com/1broseidon/deskpager/internal/pager"
)

// Colors are "#rrggbb" strings.
type Colors struct {
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
	LEDOn      string `yaml:"led_on"`
	LEDOff     string `yaml:"led_off"`
	Button     string `yaml:"button"`
}

// Panel configures the pager window.
type Panel struct {
	Title  string `yaml:"title"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Font   string `yaml:"font"`   // X core font name, e.g. "fixed"
	Sticky bool   `yaml:"sticky"` // Show on all desktops
	Colors Colors `yaml:"colors"`
}

// Retry bounds the wait for the window manager at panel creation.
type Retry struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// Hotkeys are xgbutil key sequences such as "Mod4-Right". Empty disables.
type Hotkeys struct {
	Next string `yaml:"next"`
	Prev string `yaml:"prev"`
}

// Config holds the effective pager configuration.
type Config struct {
	// Display overrides $DISPLAY when set.
	Display        string        `yaml:"display,omitempty"`
	LogLevel       string        `yaml:"log_level"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	Retry          Retry         `yaml:"retry"`
	Panel          Panel         `yaml:"panel"`
	Hotkeys        Hotkeys       `yaml:"hotkeys"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		UpdateInterval: time.Second,
		Retry: Retry{
			Attempts: desktop.DefaultAttempts,
			Delay:    desktop.DefaultDelay,
		},
		Panel: Panel{
			Title:  pager.DefaultTitle,
			Width:  96,
			Font:   "fixed",
			Sticky: true,
			Colors: Colors{
				Background: "#1f2933",
				Text:       "#f5f7fa",
				LEDOn:      "#27ae60",
				LEDOff:     "#4a5560",
				Button:     "#7f8c8d",
			},
		},
	}
}

// ValidationError reports an invalid config value and where it came from.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, warning, error")}
	}
	if c.UpdateInterval < 10*time.Millisecond {
		return &ValidationError{Path: "update_interval", Err: fmt.Errorf("update_interval must be >= 10ms")}
	}
	if c.Retry.Attempts < 1 {
		return &ValidationError{Path: "retry.attempts", Err: fmt.Errorf("retry.attempts must be >= 1")}
	}
	if c.Retry.Delay < 0 {
		return &ValidationError{Path: "retry.delay", Err: fmt.Errorf("retry.delay must be >= 0")}
	}
	if c.Panel.Width < 16 {
		return &ValidationError{Path: "panel.width", Err: fmt.Errorf("panel.width must be >= 16")}
	}
	if strings.TrimSpace(c.Panel.Font) == "" {
		return &ValidationError{Path: "panel.font", Err: fmt.Errorf("panel.font must not be empty")}
	}
	colors := []struct {
		path  string
		value string
	}{
		{"panel.colors.background", c.Panel.Colors.Background},
		{"panel.colors.text", c.Panel.Colors.Text},
		{"panel.colors.led_on", c.Panel.Colors.LEDOn},
		{"panel.colors.led_off", c.Panel.Colors.LEDOff},
		{"panel.colors.button", c.Panel.Colors.Button},
	}
	for _, col := range colors {
		if _, err := ParseColor(col.value); err != nil {
			return &ValidationError{Path: col.path, Err: err}
		}
	}
	if c.Hotkeys.Next != "" && c.Hotkeys.Next == c.Hotkeys.Prev {
		return &ValidationError{Path: "hotkeys.prev", Err: fmt.Errorf("hotkeys.prev must differ from hotkeys.next")}
	}
	return nil
}

// RetryPolicy converts the retry section for desktop.Reader.
func (c *Config) RetryPolicy() desktop.RetryPolicy {
	return desktop.RetryPolicy{Attempts: c.Retry.Attempts, Delay: c.Retry.Delay}
}

// ParseColor parses "#rrggbb" (or "rrggbb") into a 0xRRGGBB pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	return uint32(v), nil
}
