// Package preview implements the playback synchronization bridge: the single
// place where what the compositing context is showing and what the playback
// element is doing are kept consistent. The bridge owns exactly one rendering
// context / source node pair at a time, reconciles their two clocks into one
// authoritative position, and discards stale asynchronous callbacks with a
// monotonically increasing generation token.
package preview
