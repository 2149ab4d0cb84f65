package config

// Default returns the built-in configuration values applied before any file
// is parsed.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: "~/.cache/reelcut",
			LogDir:   "~/.local/share/reelcut/logs",
		},
		Engine: Engine{
			Binary:         "mpv",
			BaseSize:       1280,
			SocketWaitMS:   3000,
			CommandTimeout: 1000,
		},
		Preview: Preview{
			PositionPollMS: 250,
		},
		Narration: Narration{
			Voice:          "narrator",
			Language:       "en-US",
			Format:         "mp3",
			TimeoutSeconds: 60,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
