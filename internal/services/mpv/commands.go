package mpv

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// LoadFile replaces the engine's current media with the given target.
func (c *Client) LoadFile(target string) error {
	safe, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	_, err = c.Command("loadfile", safe, "replace")
	return err
}

// Stop unloads the current media and returns the engine to idle.
func (c *Client) Stop() error {
	_, err := c.Command("stop")
	return err
}

// SetPaused sets the engine pause state.
func (c *Client) SetPaused(paused bool) error {
	return c.SetProperty("pause", paused)
}

// Paused reports the engine pause state.
func (c *Client) Paused() (bool, error) {
	data, err := c.Command("get_property", "pause")
	if err != nil {
		return false, err
	}
	paused, ok := data.(bool)
	if !ok {
		return false, nil
	}
	return paused, nil
}

// Seek moves playback to the given absolute position in seconds.
func (c *Client) Seek(seconds float64) error {
	_, err := c.Command("seek", seconds, "absolute")
	return err
}

// SetPosition writes the playback element's position property directly.
func (c *Client) SetPosition(seconds float64) error {
	return c.SetProperty("time-pos", seconds)
}

// Position returns the current playback position in seconds.
func (c *Client) Position() (float64, error) {
	return c.getFloat("time-pos")
}

// Duration returns the loaded media duration in seconds.
func (c *Client) Duration() (float64, error) {
	return c.getFloat("duration")
}

// Idle reports whether the engine has no media loaded.
func (c *Client) Idle() (bool, error) {
	data, err := c.Command("get_property", "idle-active")
	if err != nil {
		return false, err
	}
	idle, ok := data.(bool)
	if !ok {
		return false, nil
	}
	return idle, nil
}

// SetProperty sets an arbitrary engine property.
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.Command("set_property", name, value)
	return err
}

func (c *Client) getFloat(name string) (float64, error) {
	data, err := c.Command("get_property", name)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}
	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}
	return val, nil
}

// sanitizeMediaTarget validates that a target is safe to hand to the engine:
// no control characters, no flag-shaped values, http(s) or local paths only.
func sanitizeMediaTarget(target string) (string, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return "", fmt.Errorf("empty target")
	}
	if strings.ContainsAny(t, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}
	if strings.HasPrefix(t, "-") {
		return "", fmt.Errorf("target must not start with '-'")
	}
	if strings.Contains(t, "://") {
		u, err := url.Parse(t)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return t, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}
	return filepath.Clean(t), nil
}
