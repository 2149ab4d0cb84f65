// Package preflight runs the startup checks the daemon requires: writable
// directories, available engine binaries, free disk space for the narration
// cache, and reachability of the configured speech service.
package preflight
