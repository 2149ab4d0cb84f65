package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"reelcut/internal/config"
	"reelcut/internal/deps"
	"reelcut/internal/editor"
	"reelcut/internal/logging"
	"reelcut/internal/narration"
	"reelcut/internal/preflight"
	"reelcut/internal/scene"
	"reelcut/internal/services"
)

// Daemon coordinates the preview session and scene persistence and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *scene.Store
	editor   *editor.Manager
	narrator *narration.Client
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	LockPath     string
	SceneDBPath  string
	Session      editor.Status
	Scenes       scene.HealthSummary
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies. The narration
// client may be nil when the feature is disabled.
func New(cfg *config.Config, store *scene.Store, ed *editor.Manager, narrator *narration.Client, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || ed == nil {
		return nil, errors.New("daemon requires config, store, and editor manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "reelcutd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		editor:   ed,
		narrator: narrator,
		logPath:  filepath.Join(cfg.Paths.LogDir, "reelcut.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and marks the daemon running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelcut daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running.Store(true)
	d.logger.Info("reelcut daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop closes the preview session and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.editor.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("reelcut daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// AddScene validates and persists a new scene at the end of the project.
func (d *Daemon) AddScene(ctx context.Context, sc *scene.Scene) error {
	if err := d.store.Add(ctx, sc); err != nil {
		return err
	}
	d.logger.Info("scene added",
		logging.String(logging.FieldSceneID, sc.ID),
		logging.String(logging.FieldMediaURL, sc.MediaURL))
	return nil
}

// GetScene returns a scene by id, or nil when missing.
func (d *Daemon) GetScene(ctx context.Context, id string) (*scene.Scene, error) {
	return d.store.GetByID(ctx, id)
}

// ListScenes returns all scenes in project order.
func (d *Daemon) ListScenes(ctx context.Context) ([]*scene.Scene, error) {
	return d.store.List(ctx)
}

// UpdateScene persists changes to an existing scene.
func (d *Daemon) UpdateScene(ctx context.Context, sc *scene.Scene) error {
	return d.store.Update(ctx, sc)
}

// RemoveScene deletes a scene. An open preview of that scene is closed first.
func (d *Daemon) RemoveScene(ctx context.Context, id string) error {
	if st := d.editor.Status(); st.Active && st.SceneID == id {
		d.editor.Close()
	}
	if err := d.store.Remove(ctx, id); err != nil {
		return err
	}
	d.logger.Info("scene removed", logging.String(logging.FieldSceneID, id))
	return nil
}

// ReorderScenes rewrites project order to match the given ids.
func (d *Daemon) ReorderScenes(ctx context.Context, ids []string) error {
	return d.store.Reorder(ctx, ids)
}

// SceneHealth returns aggregate scene diagnostics.
func (d *Daemon) SceneHealth(ctx context.Context) (scene.HealthSummary, error) {
	return d.store.Health(ctx)
}

// OpenPreview starts a preview session for the given scene.
func (d *Daemon) OpenPreview(ctx context.Context, sceneID string) error {
	return d.editor.Open(ctx, sceneID)
}

// ClosePreview ends the active preview session.
func (d *Daemon) ClosePreview() {
	d.editor.Close()
}

// PlayPreview starts playback of the active session.
func (d *Daemon) PlayPreview() error {
	return d.editor.Play()
}

// PausePreview pauses playback of the active session.
func (d *Daemon) PausePreview() error {
	return d.editor.Pause()
}

// SeekPreview moves playback within the active scene's trim window.
func (d *Daemon) SeekPreview(seconds float64) error {
	return d.editor.Seek(seconds)
}

// PreviewStatus returns the active session snapshot.
func (d *Daemon) PreviewStatus() editor.Status {
	return d.editor.Status()
}

// GenerateNarration synthesizes narration audio for a scene and records the
// written path on the scene.
func (d *Daemon) GenerateNarration(ctx context.Context, sceneID string) (string, error) {
	if d.narrator == nil {
		return "", services.Wrap(services.ErrConfiguration, "daemon", "narrate", "narration is not enabled", nil)
	}
	sc, err := d.store.GetByID(ctx, sceneID)
	if err != nil {
		return "", err
	}
	if sc == nil {
		return "", services.Wrap(services.ErrNotFound, "daemon", "narrate", "scene "+sceneID, nil)
	}
	if strings.TrimSpace(sc.NarrationText) == "" {
		return "", services.Wrap(services.ErrValidation, "daemon", "narrate", "scene has no narration text", nil)
	}

	audioPath, err := d.narrator.Generate(ctx, narration.Request{
		SceneID:  sc.ID,
		Text:     sc.NarrationText,
		Voice:    sc.NarrationVoice,
		Language: sc.NarrationLanguage,
	})
	if err != nil {
		return "", err
	}

	sc.NarrationAudio = audioPath
	if err := d.store.Update(ctx, sc); err != nil {
		return audioPath, fmt.Errorf("record narration audio: %w", err)
	}
	d.logger.Info("narration generated",
		logging.String(logging.FieldSceneID, sc.ID),
		logging.String("audio", audioPath))
	return audioPath, nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	health, err := d.store.Health(ctx)
	if err != nil {
		d.logger.Warn("scene health query failed", logging.Error(err))
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockPath:     d.lockPath,
		SceneDBPath:  d.store.Path(),
		Session:      d.editor.Status(),
		Scenes:       health,
		Dependencies: preflight.CheckSystemDeps(d.cfg),
	}
}
