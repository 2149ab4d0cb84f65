package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reelcut/internal/config"
	"reelcut/internal/services/mpv"
)

// NewMPVLauncher returns the production engine launcher: one mpv process per
// rendering context, driven over JSON-IPC.
func NewMPVLauncher(cfg *config.Config, logger *slog.Logger) Launcher {
	return func(surface Surface, geometry Geometry) (Engine, error) {
		client, err := mpv.Launch(context.Background(), mpv.LaunchOptions{
			Binary:         cfg.EngineBinary(),
			Width:          geometry.Width,
			Height:         geometry.Height,
			WindowID:       surface.WindowID,
			Display:        surface.Display,
			ExtraArgs:      cfg.Engine.ExtraArgs,
			SocketWait:     time.Duration(cfg.Engine.SocketWaitMS) * time.Millisecond,
			CommandTimeout: time.Duration(cfg.Engine.CommandTimeout) * time.Millisecond,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &mpvEngine{client: client, logger: logger}, nil
	}
}

// mpvEngine adapts the mpv IPC client to the preview layer's Engine contract.
type mpvEngine struct {
	client *mpv.Client
	logger *slog.Logger

	mu       sync.Mutex
	listener *mpv.Listener
}

func (e *mpvEngine) Load(url string) error {
	return e.client.LoadFile(url)
}

func (e *mpvEngine) Unload() error {
	return e.client.Stop()
}

func (e *mpvEngine) SetPaused(paused bool) error {
	return e.client.SetPaused(paused)
}

func (e *mpvEngine) Seek(seconds float64) error {
	return e.client.Seek(seconds)
}

func (e *mpvEngine) SetPosition(seconds float64) error {
	return e.client.SetPosition(seconds)
}

func (e *mpvEngine) Position() (float64, error) {
	return e.client.Position()
}

func (e *mpvEngine) Duration() (float64, error) {
	return e.client.Duration()
}

func (e *mpvEngine) Playing() (bool, error) {
	paused, err := e.client.Paused()
	if err != nil {
		return false, err
	}
	if paused {
		return false, nil
	}
	idle, err := e.client.Idle()
	if err != nil {
		return false, err
	}
	return !idle, nil
}

func (e *mpvEngine) Observe(handler func(Event)) error {
	if handler == nil {
		return errors.New("mpv engine: nil event handler")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listener != nil {
		e.listener.Stop()
	}
	e.listener = e.client.NewListener(func(ev mpv.Event) {
		switch ev.Kind {
		case mpv.EventFileLoaded:
			handler(Event{Kind: EventLoaded})
		case mpv.EventPosition:
			handler(Event{Kind: EventPosition, Position: ev.Position})
		case mpv.EventEndFile:
			if ev.Reason == mpv.EndReasonError {
				handler(Event{Kind: EventError, Err: fmt.Errorf("engine reported media failure")})
				return
			}
			handler(Event{Kind: EventEnded})
		}
	}, e.logger)
	return e.listener.Start()
}

func (e *mpvEngine) Close() error {
	e.mu.Lock()
	if e.listener != nil {
		e.listener.Stop()
		e.listener = nil
	}
	e.mu.Unlock()
	return e.client.Close()
}
