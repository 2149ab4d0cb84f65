// Package render owns the lifecycle of the compositing context a scene
// preview draws into: creation sized from an aspect-ratio hint, and teardown
// that releases the engine process. It is a constructor/destructor pair with
// no state machine of its own.
package render
