package editor

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"reelcut/internal/config"
	"reelcut/internal/logging"
	"reelcut/internal/media/ffprobe"
	"reelcut/internal/preview"
	"reelcut/internal/preview/render"
	"reelcut/internal/scene"
	"reelcut/internal/services"
)

// Bridge is the playback surface the manager drives. *preview.Bridge
// satisfies it; tests substitute a recorder.
type Bridge interface {
	Initialize(url string, kind preview.MediaKind, aspectRatio float64)
	Play()
	Pause()
	Seek(seconds float64)
	State() preview.PlaybackState
	Shutdown()
}

// BridgeFactory builds the bridge the manager owns. The manager installs its
// own hooks into the options before calling the factory.
type BridgeFactory func(preview.Options) Bridge

// ProbeFunc inspects a media target. Defaults to ffprobe.
type ProbeFunc func(ctx context.Context, target string) (ffprobe.Result, error)

// Options configures a session manager.
type Options struct {
	Config   *config.Config
	Store    *scene.Store
	Launcher render.Launcher
	Surface  preview.SurfaceProvider
	Probe    ProbeFunc
	Bridge   BridgeFactory
	Logger   *slog.Logger
}

// Status is the consumer-visible snapshot of the active session.
type Status struct {
	Active      bool
	SceneID     string
	Title       string
	MediaURL    string
	MediaKind   string
	Ready       bool
	Duration    float64
	CurrentTime float64
	TrimStart   float64
	TrimEnd     float64
	AspectRatio float64
	LastError   string
	OpenedAt    time.Time
}

type session struct {
	scene       *scene.Scene
	aspectRatio float64
	lastError   string
	openedAt    time.Time
}

// Manager owns the daemon's single preview session.
type Manager struct {
	cfg    *config.Config
	store  *scene.Store
	probe  ProbeFunc
	logger *slog.Logger
	bridge Bridge

	mu      sync.Mutex
	current *session
}

// NewManager wires a manager and its bridge. A nil launcher uses the real
// compositing engine; tests inject fakes through Options.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "editor")

	m := &Manager{
		cfg:    opts.Config,
		store:  opts.Store,
		probe:  opts.Probe,
		logger: logger,
	}
	if m.probe == nil {
		m.probe = func(ctx context.Context, target string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, opts.Config.FFprobeBinary(), target)
		}
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = render.NewMPVLauncher(opts.Config, logger)
	}
	surface := opts.Surface
	if surface == nil && opts.Config != nil {
		surface = render.NewSurfaceProvider(opts.Config)
	}
	baseSize := 0
	pollMS := 0
	if opts.Config != nil {
		baseSize = opts.Config.Engine.BaseSize
		pollMS = opts.Config.Preview.PositionPollMS
	}

	bridgeOpts := preview.Options{
		Launcher:       launcher,
		Surface:        surface,
		BaseSize:       baseSize,
		PositionPollMS: pollMS,
		Logger:         logger,
		Hooks: preview.Hooks{
			OnReady:          m.handleReady,
			OnError:          m.handleError,
			OnDurationChange: m.handleDurationChange,
		},
	}
	factory := opts.Bridge
	if factory == nil {
		factory = func(o preview.Options) Bridge { return preview.New(o) }
	}
	m.bridge = factory(bridgeOpts)
	return m
}

// Open starts a preview session for the given scene, replacing any session
// already active. The aspect hint comes from a media probe; probe failures
// are logged and fall back to the engine's default geometry.
func (m *Manager) Open(ctx context.Context, sceneID string) error {
	sc, err := m.store.GetByID(ctx, sceneID)
	if err != nil {
		return services.Wrap(services.ErrTransient, "editor", "open", "load scene", err)
	}
	if sc == nil {
		return services.Wrap(services.ErrNotFound, "editor", "open", "scene "+sceneID, nil)
	}

	aspect := 0.0
	if sc.MediaKind == scene.KindVideo {
		result, probeErr := m.probe(ctx, sc.MediaURL)
		if probeErr != nil {
			m.logger.Warn("media probe failed, using default geometry",
				logging.String(logging.FieldSceneID, sc.ID),
				logging.Error(probeErr))
		} else {
			aspect = result.AspectRatio()
		}
	}

	m.mu.Lock()
	m.current = &session{
		scene:       sc,
		aspectRatio: aspect,
		openedAt:    time.Now().UTC(),
	}
	m.mu.Unlock()

	m.logger.Info("preview session opened",
		logging.String(logging.FieldSceneID, sc.ID),
		logging.String(logging.FieldMediaURL, sc.MediaURL),
		logging.Float64("aspect_ratio", aspect))

	m.bridge.Initialize(sc.MediaURL, preview.ParseMediaKind(string(sc.MediaKind)), aspect)
	return nil
}

// Play starts playback of the active session.
func (m *Manager) Play() error {
	if !m.active() {
		return services.Wrap(services.ErrNotFound, "editor", "play", "no active session", nil)
	}
	m.bridge.Play()
	return nil
}

// Pause pauses playback of the active session.
func (m *Manager) Pause() error {
	if !m.active() {
		return services.Wrap(services.ErrNotFound, "editor", "pause", "no active session", nil)
	}
	m.bridge.Pause()
	return nil
}

// Seek moves playback within the scene's trim window. The trim boundaries
// are the editor's concern; the bridge below clamps only to the media
// duration.
func (m *Manager) Seek(seconds float64) error {
	m.mu.Lock()
	sess := m.current
	m.mu.Unlock()
	if sess == nil {
		return services.Wrap(services.ErrNotFound, "editor", "seek", "no active session", nil)
	}

	start := sess.scene.TrimStart
	end := sess.scene.TrimEnd
	if st := m.bridge.State(); st.Ready {
		start, end = sess.scene.TrimWindow(st.Duration)
	} else if end == 0 {
		end = math.Inf(1)
	}

	clamped := seconds
	if clamped < start {
		clamped = start
	}
	if clamped > end {
		clamped = end
	}
	m.bridge.Seek(clamped)
	return nil
}

// Status returns the active session snapshot, or an inactive status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	sess := m.current
	m.mu.Unlock()

	if sess == nil {
		return Status{}
	}
	st := m.bridge.State()
	return Status{
		Active:      true,
		SceneID:     sess.scene.ID,
		Title:       sess.scene.Title,
		MediaURL:    sess.scene.MediaURL,
		MediaKind:   string(sess.scene.MediaKind),
		Ready:       st.Ready,
		Duration:    st.Duration,
		CurrentTime: st.CurrentTime,
		TrimStart:   sess.scene.TrimStart,
		TrimEnd:     sess.scene.TrimEnd,
		AspectRatio: sess.aspectRatio,
		LastError:   sess.lastError,
		OpenedAt:    sess.openedAt,
	}
}

// Close ends the active session. Safe to call when nothing is open.
func (m *Manager) Close() {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()

	m.bridge.Shutdown()
	if had {
		m.logger.Info("preview session closed")
	}
}

func (m *Manager) active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

func (m *Manager) handleReady() {
	m.mu.Lock()
	sess := m.current
	m.mu.Unlock()
	if sess == nil {
		return
	}
	m.logger.Info("preview ready", logging.String(logging.FieldSceneID, sess.scene.ID))
}

func (m *Manager) handleError(err error) {
	m.mu.Lock()
	if m.current != nil {
		m.current.lastError = err.Error()
	}
	m.mu.Unlock()
	m.logger.Warn("preview error", logging.Error(err))
}

// handleDurationChange records the discovered duration on the stored scene
// so future trim edits can validate against it.
func (m *Manager) handleDurationChange(duration float64) {
	m.mu.Lock()
	sess := m.current
	m.mu.Unlock()
	if sess == nil || sess.scene.Duration == duration {
		return
	}

	sess.scene.Duration = duration
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Update(ctx, sess.scene); err != nil {
		m.logger.Warn("persist discovered duration failed",
			logging.String(logging.FieldSceneID, sess.scene.ID),
			logging.Error(err))
	}
}
