// Package mpv drives an mpv process over its JSON-IPC protocol. reelcut uses
// mpv as the compositing engine behind scene previews: one process per
// rendering context, commands over a Unix socket, and property-change
// notifications for playback state.
package mpv
