// Package source binds a single media URL into a rendering context as a
// playable node and tracks its readiness, duration, and error state. A node
// is created in Pending state and advances to Ready only when the engine
// reports a finite, positive duration; media that loads with an unusable
// duration parks in Invalid and simply never becomes ready.
package source
