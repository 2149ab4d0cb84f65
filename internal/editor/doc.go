// Package editor is the consumer side of the preview bridge: it resolves
// scenes from the store, probes their media for an aspect hint, enforces trim
// boundaries on seeks, and tracks per-session playback status. One preview
// session is active per daemon at a time.
package editor
