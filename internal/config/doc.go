// Package config loads, validates, and normalizes reelcut's TOML
// configuration. All path fields are expanded to absolute paths during load
// so the rest of the codebase never handles "~" or relative directories.
package config
