package render

// EventKind classifies engine notifications delivered to the preview layer.
type EventKind int

const (
	// EventLoaded fires once the engine finished loading the current media.
	// Duration becomes readable from the engine element at this point.
	EventLoaded EventKind = iota
	// EventPosition fires on playback element position notifications.
	EventPosition
	// EventError fires on a decode or network failure of the loaded media.
	EventError
	// EventEnded fires when playback reaches the end of the media.
	EventEnded
)

// Event is one engine notification forwarded to the preview layer.
type Event struct {
	Kind     EventKind
	Position float64
	Err      error
}

// Engine is the subset of the compositing engine the preview layer drives.
// The production implementation wraps an mpv process; tests substitute fakes.
type Engine interface {
	// Load binds a media target to the engine, replacing any current one.
	Load(url string) error
	// Unload detaches the current media and returns the engine to idle.
	Unload() error
	// SetPaused starts or stops playback of the loaded media.
	SetPaused(paused bool) error
	// Seek moves the rendering clock to an absolute position in seconds.
	Seek(seconds float64) error
	// SetPosition writes the playback element's position directly.
	SetPosition(seconds float64) error
	// Position reads the playback element's current position.
	Position() (float64, error)
	// Duration reads the playback element's duration. Only meaningful after
	// EventLoaded; the element is the sole authoritative duration source.
	Duration() (float64, error)
	// Playing reports whether the engine is actively advancing.
	Playing() (bool, error)
	// Observe registers the event handler. At most one handler is active.
	Observe(handler func(Event)) error
	// Close releases the engine and all of its native resources.
	Close() error
}

// Launcher constructs an engine bound to a surface with fixed pixel geometry.
type Launcher func(surface Surface, geometry Geometry) (Engine, error)
