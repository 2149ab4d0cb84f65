package config

import "strings"

// normalize expands path fields and fills defaulted values after decoding.
func (c *Config) normalize() error {
	defaults := Default()

	var err error
	if c.Paths.CacheDir, err = expandPath(valueOr(c.Paths.CacheDir, defaults.Paths.CacheDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaults.Paths.LogDir)); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.Socket) != "" {
		if c.Paths.Socket, err = expandPath(c.Paths.Socket); err != nil {
			return err
		}
	}

	c.Engine.Binary = valueOr(c.Engine.Binary, defaults.Engine.Binary)
	if c.Engine.BaseSize <= 0 {
		c.Engine.BaseSize = defaults.Engine.BaseSize
	}
	if c.Engine.SocketWaitMS <= 0 {
		c.Engine.SocketWaitMS = defaults.Engine.SocketWaitMS
	}
	if c.Engine.CommandTimeout <= 0 {
		c.Engine.CommandTimeout = defaults.Engine.CommandTimeout
	}

	if c.Preview.PositionPollMS <= 0 {
		c.Preview.PositionPollMS = defaults.Preview.PositionPollMS
	}

	c.Narration.BaseURL = strings.TrimRight(strings.TrimSpace(c.Narration.BaseURL), "/")
	c.Narration.Voice = valueOr(c.Narration.Voice, defaults.Narration.Voice)
	c.Narration.Language = valueOr(c.Narration.Language, defaults.Narration.Language)
	c.Narration.Format = strings.TrimPrefix(valueOr(c.Narration.Format, defaults.Narration.Format), ".")
	if c.Narration.TimeoutSeconds <= 0 {
		c.Narration.TimeoutSeconds = defaults.Narration.TimeoutSeconds
	}

	c.Logging.Format = strings.ToLower(valueOr(c.Logging.Format, defaults.Logging.Format))
	c.Logging.Level = strings.ToLower(valueOr(c.Logging.Level, defaults.Logging.Level))

	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
