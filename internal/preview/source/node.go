package source

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"reelcut/internal/logging"
	"reelcut/internal/preview/render"
)

var (
	// ErrNodeCreation indicates the node could not be registered with the
	// rendering context.
	ErrNodeCreation = errors.New("source: node creation failed")
	// ErrMediaDecode indicates the engine reported a decode or network
	// failure for the loaded media. Always surfaced, never retried here.
	ErrMediaDecode = errors.New("source: media decode failure")
)

// PlayableCeiling is the upper playable bound applied before the real
// duration is known. It is a generous ceiling far beyond any realistic scene
// media length, not a duration estimate.
const PlayableCeiling = 86400.0

// State is the lifecycle position of a source node.
type State string

const (
	StatePending  State = "pending"
	StateReady    State = "ready"
	StateInvalid  State = "invalid"
	StateFailed   State = "failed"
	StateDisposed State = "disposed"
)

// Callbacks are invoked from the engine's event goroutine. Loaded fires at
// most once with the authoritative duration; Error fires at most once.
type Callbacks struct {
	OnLoaded   func(duration float64)
	OnError    func(err error)
	OnPosition func(seconds float64)
	OnEnded    func()
}

// Node is one live media input inside a rendering context.
type Node struct {
	url    string
	engine render.Engine
	logger *slog.Logger
	cb     Callbacks

	mu       sync.Mutex
	state    State
	duration float64
}

// Create registers a node for url with the context's engine, paused at time
// zero. It fails with ErrNodeCreation when the context is nil or the engine
// rejects the media target.
func Create(rc *render.Context, url string, cb Callbacks, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "source")

	if rc == nil || rc.Engine() == nil {
		return nil, fmt.Errorf("%w: no rendering context", ErrNodeCreation)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: empty media url", ErrNodeCreation)
	}

	node := &Node{
		url:    url,
		engine: rc.Engine(),
		logger: logger,
		cb:     cb,
		state:  StatePending,
	}

	// Observe before loading so a fast engine cannot fire the loaded event
	// into the void.
	if err := node.engine.Observe(node.handleEvent); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNodeCreation, err)
	}
	if err := node.engine.Load(url); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNodeCreation, err)
	}

	return node, nil
}

// URL returns the media target this node was created for.
func (n *Node) URL() string {
	return n.url
}

// State returns the node's lifecycle state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Ready reports whether the node reached Ready.
func (n *Node) Ready() bool {
	return n.State() == StateReady
}

// Duration returns the authoritative media duration, or 0 before readiness.
func (n *Node) Duration() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.duration
}

// Bound returns the playable ceiling: the real duration once known, the
// generous default before that.
func (n *Node) Bound() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state == StateReady && n.duration > 0 {
		return n.duration
	}
	return PlayableCeiling
}

// EnsureStarted verifies playback actually began after a play command and
// re-issues the start when the engine treated it as a no-op on an unstarted
// node. That engine quirk is expected and tolerated, not an error.
func (n *Node) EnsureStarted() {
	playing, err := n.engine.Playing()
	if err != nil {
		n.logger.Debug("playback state query failed", logging.Error(err))
		return
	}
	if playing {
		return
	}
	if err := n.engine.SetPaused(false); err != nil {
		n.logger.Debug("restart after no-op play failed", logging.Error(err))
	}
}

// Detach tears the node down. Engine errors are swallowed and logged so a
// stuck teardown never prevents a replacement node from being created.
// Detach is idempotent; a detached node ignores all further engine events.
func (n *Node) Detach() {
	n.mu.Lock()
	if n.state == StateDisposed {
		n.mu.Unlock()
		return
	}
	n.state = StateDisposed
	n.mu.Unlock()

	if err := n.engine.Unload(); err != nil {
		n.logger.Debug("engine unload during detach", logging.Error(err))
	}
}

// handleEvent runs on the engine's event goroutine.
func (n *Node) handleEvent(ev render.Event) {
	switch ev.Kind {
	case render.EventLoaded:
		n.handleLoaded()
	case render.EventError:
		n.handleError(ev.Err)
	case render.EventPosition:
		n.mu.Lock()
		disposed := n.state == StateDisposed
		n.mu.Unlock()
		if !disposed && n.cb.OnPosition != nil {
			n.cb.OnPosition(ev.Position)
		}
	case render.EventEnded:
		n.mu.Lock()
		disposed := n.state == StateDisposed
		n.mu.Unlock()
		if !disposed && n.cb.OnEnded != nil {
			n.cb.OnEnded()
		}
	}
}

func (n *Node) handleLoaded() {
	n.mu.Lock()
	if n.state != StatePending {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	// The engine element is the only authoritative duration source.
	duration, err := n.engine.Duration()

	n.mu.Lock()
	if n.state != StatePending {
		n.mu.Unlock()
		return
	}
	if err != nil || !isUsableDuration(duration) {
		// Loaded with a missing or unusable duration: non-fatal, the node
		// simply never becomes ready. Callers impose their own timeouts.
		n.state = StateInvalid
		n.mu.Unlock()
		n.logger.Warn("media loaded without usable duration",
			logging.String(logging.FieldMediaURL, n.url),
			logging.Float64("duration", duration),
			logging.String(logging.FieldEventType, "invalid_duration"),
			logging.String(logging.FieldErrorHint, "node stays pending-like; re-initialize or wait"))
		return
	}
	n.state = StateReady
	n.duration = duration
	n.mu.Unlock()

	if n.cb.OnLoaded != nil {
		n.cb.OnLoaded(duration)
	}
}

func (n *Node) handleError(cause error) {
	n.mu.Lock()
	if n.state == StateDisposed || n.state == StateFailed {
		n.mu.Unlock()
		return
	}
	n.state = StateFailed
	n.mu.Unlock()

	err := ErrMediaDecode
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrMediaDecode, cause)
	}
	n.logger.Warn("media playback failed",
		logging.String(logging.FieldMediaURL, n.url),
		logging.Error(err))
	if n.cb.OnError != nil {
		n.cb.OnError(err)
	}
}

func isUsableDuration(duration float64) bool {
	return !math.IsNaN(duration) && !math.IsInf(duration, 0) && duration > 0
}
