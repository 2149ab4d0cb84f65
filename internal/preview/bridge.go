package preview

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/preview/render"
	"reelcut/internal/preview/source"
	"reelcut/internal/preview/timebase"
)

// Hooks are the callbacks the bridge invokes toward its consumer. All hooks
// are optional and may be invoked from the engine's event goroutine.
type Hooks struct {
	OnReady          func()
	OnError          func(error)
	OnDurationChange func(duration float64)
}

// PlaybackState is the consumer-visible snapshot of the bridge.
type PlaybackState struct {
	Ready       bool
	Duration    float64
	CurrentTime float64
	Playing     bool
	MediaURL    string
	Generation  uint64
}

// SurfaceProvider returns the drawing surface the rendering context should
// attach to, or nil when the hosting window has not been mounted yet.
type SurfaceProvider func() *render.Surface

// Options configures a bridge instance.
type Options struct {
	Launcher render.Launcher
	Surface  SurfaceProvider
	BaseSize int
	// PositionPollMS is the interval of the position poll that backstops
	// the engine's own change notifications. Zero uses the default.
	PositionPollMS int
	Hooks          Hooks
	Logger         *slog.Logger
}

const defaultPositionPoll = 250 * time.Millisecond

// Bridge drives a compositing context in lock-step with the playback
// element's clock. One bridge exists per active scene preview; it owns its
// rendering context and source node exclusively.
type Bridge struct {
	launcher     render.Launcher
	surface      SurfaceProvider
	baseSize     int
	pollInterval time.Duration
	hooks        Hooks
	logger       *slog.Logger
	clock        *timebase.Timebase

	mu         sync.Mutex
	generation uint64
	mediaURL   string
	kind       MediaKind
	rc         *render.Context
	node       *source.Node
	ready      bool
	duration   float64
}

// New constructs an inactive bridge. Initialize activates it.
func New(opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	pollInterval := time.Duration(opts.PositionPollMS) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = defaultPositionPoll
	}
	return &Bridge{
		launcher:     opts.Launcher,
		surface:      opts.Surface,
		baseSize:     opts.BaseSize,
		pollInterval: pollInterval,
		hooks:        opts.Hooks,
		logger:       logging.NewComponentLogger(logger, "bridge"),
		clock:        timebase.New(),
		kind:         MediaKindNone,
	}
}

// Initialize points the bridge at a new media source. It tears down any
// existing context/node pair, then constructs a replacement asynchronously;
// the call itself never blocks on the engine. When kind is not video or the
// URL is empty the bridge only tears down and stays inactive.
//
// Every call bumps the generation token first. Asynchronous completions
// carry the token they were started under and discard themselves when a
// later Initialize has superseded them; the bridge never attempts to cancel
// in-flight engine callbacks directly.
func (b *Bridge) Initialize(url string, kind MediaKind, aspectRatio float64) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	oldNode, oldRC := b.node, b.rc
	b.node, b.rc = nil, nil
	b.ready = false
	b.duration = 0
	b.mediaURL = url
	b.kind = kind
	b.clock.Reset()
	b.mu.Unlock()

	b.logger.Debug("initialize requested",
		logging.Uint64(logging.FieldGeneration, gen),
		logging.String(logging.FieldMediaURL, url),
		logging.String("media_kind", string(kind)))

	go b.rebuild(gen, url, kind, aspectRatio, oldNode, oldRC)
}

// Shutdown releases the current pair and deactivates the bridge. Used when
// the consumer unmounts; safe to call at any time.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	b.generation++
	oldNode, oldRC := b.node, b.rc
	b.node, b.rc = nil, nil
	b.ready = false
	b.duration = 0
	b.mediaURL = ""
	b.kind = MediaKindNone
	b.clock.Reset()
	b.mu.Unlock()

	releasePair(oldNode, oldRC)
}

// rebuild performs teardown of the previous pair followed by construction of
// the new one, strictly in that order. Teardown swallows its own errors so a
// failing engine can never starve the replacement.
func (b *Bridge) rebuild(gen uint64, url string, kind MediaKind, aspectRatio float64, oldNode *source.Node, oldRC *render.Context) {
	releasePair(oldNode, oldRC)

	if kind != MediaKindVideo || url == "" {
		return
	}

	surface := b.lookupSurface()
	if surface == nil {
		b.logger.Debug("surface not mounted, initialization deferred to consumer retry",
			logging.Uint64(logging.FieldGeneration, gen))
		b.surfaceError(gen, render.ErrSurfaceUnavailable)
		return
	}

	rc, err := render.Prepare(b.launcher, surface, render.Options{
		AspectRatio: aspectRatio,
		BaseSize:    b.baseSize,
	}, b.logger)
	if err != nil {
		b.logger.Warn("rendering context creation failed",
			logging.Uint64(logging.FieldGeneration, gen),
			logging.Error(err))
		b.surfaceError(gen, err)
		return
	}

	// Install the context before the node so readiness callbacks observe a
	// live context. A stale generation here means a newer Initialize already
	// took over; the pair we just built is ours to release.
	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		rc.Dispose()
		return
	}
	b.rc = rc
	b.mu.Unlock()

	node, err := source.Create(rc, url, source.Callbacks{
		OnLoaded:   func(duration float64) { b.handleLoaded(gen, duration) },
		OnError:    func(err error) { b.handleNodeError(gen, err) },
		OnPosition: func(seconds float64) { b.handlePosition(gen, seconds) },
		OnEnded:    func() { b.handleEnded(gen) },
	}, b.logger)
	if err != nil {
		b.mu.Lock()
		if b.generation == gen && b.rc == rc {
			b.rc = nil
		}
		b.mu.Unlock()
		rc.Dispose()
		b.logger.Warn("source node creation failed",
			logging.Uint64(logging.FieldGeneration, gen),
			logging.Error(err))
		b.surfaceError(gen, err)
		return
	}

	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		releasePair(node, rc)
		return
	}
	b.node = node
	b.mu.Unlock()

	go b.pollPosition(gen, rc)
}

// pollPosition periodically mirrors the playback element's position into the
// bridge clock while media is playing. It backstops the engine's own change
// notifications, which can go quiet across reconnects, and exits as soon as a
// newer initialization supersedes its generation.
func (b *Bridge) pollPosition(gen uint64, rc *render.Context) {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		b.mu.Lock()
		stale := b.generation != gen
		active := b.ready && b.clock.Playing()
		b.mu.Unlock()

		if stale {
			return
		}
		if !active {
			continue
		}

		position, err := rc.Engine().Position()
		if err != nil {
			continue
		}
		b.handlePosition(gen, position)
	}
}

// Play starts playback. Readiness is required; calling before the media is
// ready is a normal race between user intent and load completion, so it is
// logged and ignored rather than treated as an error.
func (b *Bridge) Play() {
	b.mu.Lock()
	if !b.ready || b.rc == nil || b.node == nil {
		b.mu.Unlock()
		b.logger.Debug("play ignored before readiness")
		return
	}
	rc, node := b.rc, b.node
	b.clock.SetPlaying(true)
	b.mu.Unlock()

	if err := rc.Engine().SetPaused(false); err != nil {
		b.logger.Warn("engine play failed", logging.Error(err))
		return
	}
	// The engine's play call can be a no-op on an unstarted node; the node
	// re-issues the start when that happens.
	node.EnsureStarted()
}

// Pause stops playback. A missing context makes this a no-op.
func (b *Bridge) Pause() {
	b.mu.Lock()
	rc := b.rc
	b.clock.SetPlaying(false)
	b.mu.Unlock()

	if rc == nil {
		b.logger.Debug("pause ignored without rendering context")
		return
	}
	if err := rc.Engine().SetPaused(true); err != nil {
		b.logger.Warn("engine pause failed", logging.Error(err))
	}
}

// Seek moves playback to the clamped position. Both underlying clocks are
// written: the rendering clock via a seek command and the playback element
// position directly. The consumer-visible position updates immediately
// instead of waiting for the element's next notification. Concurrent seeks
// resolve last-write-wins with no queuing. Before the node reports ready the
// engine still receives the clamped seek, bounded by the node's playable
// ceiling, and the consumer clock stays at zero.
func (b *Bridge) Seek(seconds float64) {
	b.mu.Lock()
	rc, node := b.rc, b.node
	b.mu.Unlock()

	if rc == nil || node == nil {
		b.logger.Debug("seek ignored without media pair",
			logging.Float64("seconds", seconds))
		return
	}

	// The node's bound is the media duration once ready and the playable
	// ceiling before that. Prefer the rendering context's live duration
	// when it is usable.
	limit := node.Bound()
	if engineDuration, err := rc.Engine().Duration(); err == nil && usableDuration(engineDuration) {
		limit = engineDuration
	}

	clamped := clamp(seconds, 0, limit)

	if err := rc.Engine().Seek(clamped); err != nil {
		b.logger.Warn("engine seek failed", logging.Error(err), logging.Float64("seconds", clamped))
	}
	if err := rc.Engine().SetPosition(clamped); err != nil {
		b.logger.Debug("element position write failed", logging.Error(err))
	}

	b.mu.Lock()
	if b.rc == rc && b.ready {
		b.clock.SetPosition(clamped)
	}
	b.mu.Unlock()
}

// State returns the consumer-visible playback snapshot.
func (b *Bridge) State() PlaybackState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return PlaybackState{
		Ready:       b.ready,
		Duration:    b.duration,
		CurrentTime: b.clock.Position(),
		Playing:     b.clock.Playing(),
		MediaURL:    b.mediaURL,
		Generation:  b.generation,
	}
}

func (b *Bridge) handleLoaded(gen uint64, duration float64) {
	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		b.logger.Debug("stale loaded callback discarded",
			logging.Uint64(logging.FieldGeneration, gen))
		return
	}
	b.ready = true
	b.duration = duration
	b.clock.SetPosition(0)
	b.mu.Unlock()

	b.logger.Debug("media ready",
		logging.Uint64(logging.FieldGeneration, gen),
		logging.Float64("duration", duration))

	if b.hooks.OnDurationChange != nil {
		b.hooks.OnDurationChange(duration)
	}
	if b.hooks.OnReady != nil {
		b.hooks.OnReady()
	}
}

func (b *Bridge) handleNodeError(gen uint64, err error) {
	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		b.logger.Debug("stale error callback discarded",
			logging.Uint64(logging.FieldGeneration, gen))
		return
	}
	b.ready = false
	b.clock.SetPlaying(false)
	b.mu.Unlock()

	if b.hooks.OnError != nil {
		b.hooks.OnError(err)
	}
}

// handlePosition mirrors playback element notifications into the bridge
// clock. Notifications before readiness are dropped: the position is defined
// as zero until a duration exists to clamp against.
func (b *Bridge) handlePosition(gen uint64, seconds float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generation != gen || !b.ready {
		return
	}
	b.clock.SetPosition(clamp(seconds, 0, b.duration))
}

func (b *Bridge) handleEnded(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generation != gen {
		return
	}
	b.clock.SetPlaying(false)
	if b.ready {
		b.clock.SetPosition(b.duration)
	}
}

// surfaceError reports a construction failure to the consumer unless a newer
// initialization already superseded this one.
func (b *Bridge) surfaceError(gen uint64, err error) {
	b.mu.Lock()
	stale := b.generation != gen
	b.mu.Unlock()
	if stale || b.hooks.OnError == nil {
		return
	}
	b.hooks.OnError(err)
}

func (b *Bridge) lookupSurface() *render.Surface {
	if b.surface == nil {
		return nil
	}
	return b.surface()
}

// releasePair tears down a node then its context, in that order. Both sides
// swallow their own errors.
func releasePair(node *source.Node, rc *render.Context) {
	if node != nil {
		node.Detach()
	}
	if rc != nil {
		rc.Dispose()
	}
}

func clamp(value, low, high float64) float64 {
	if math.IsNaN(value) || value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func usableDuration(duration float64) bool {
	return !math.IsNaN(duration) && !math.IsInf(duration, 0) && duration > 0
}
