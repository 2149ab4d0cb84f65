package mpv

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"reelcut/internal/logging"
)

const (
	socketWaitDelay = 100 * time.Millisecond
	quitGracePeriod = 3 * time.Second
)

// LaunchOptions describes how the engine process is started.
type LaunchOptions struct {
	Binary     string
	SocketPath string
	Width      int
	Height     int
	WindowID   int64
	Display    string
	ExtraArgs  []string
	SocketWait time.Duration
	// CommandTimeout bounds each IPC request/response exchange. Zero uses
	// the package default.
	CommandTimeout time.Duration
}

// Client owns one mpv process and its IPC socket.
type Client struct {
	socketPath     string
	cmd            *exec.Cmd
	exited         chan struct{}
	logger         *slog.Logger
	commandTimeout time.Duration
}

// Launch starts an idle, paused mpv process sized to the requested geometry
// and waits until its IPC socket accepts connections.
func Launch(ctx context.Context, opts LaunchOptions, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "mpv"
	}

	socketPath := strings.TrimSpace(opts.SocketPath)
	if socketPath == "" {
		suffix := make([]byte, 4)
		if _, err := rand.Read(suffix); err != nil {
			return nil, fmt.Errorf("generate socket name: %w", err)
		}
		socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("reelcut-%x.sock", suffix))
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--idle=yes",
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
	}
	if opts.Width > 0 && opts.Height > 0 {
		args = append(args, fmt.Sprintf("--geometry=%dx%d", opts.Width, opts.Height))
	}
	if opts.WindowID > 0 {
		args = append(args, fmt.Sprintf("--wid=%d", opts.WindowID))
	}
	args = append(args, opts.ExtraArgs...)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if opts.Display != "" {
		cmd.Env = append(os.Environ(), "DISPLAY="+opts.Display)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}

	client := &Client{
		socketPath:     socketPath,
		cmd:            cmd,
		exited:         make(chan struct{}),
		logger:         logging.NewComponentLogger(logger, "engine"),
		commandTimeout: opts.CommandTimeout,
	}
	go func() {
		_ = cmd.Wait()
		close(client.exited)
	}()

	wait := opts.SocketWait
	if wait <= 0 {
		wait = 3 * time.Second
	}
	if err := client.waitForSocket(wait); err != nil {
		select {
		case <-client.exited:
		default:
			client.logger.Warn("killing engine: socket never became ready")
			_ = cmd.Process.Kill()
		}
		return nil, fmt.Errorf("engine socket not ready: %w", err)
	}

	return client, nil
}

func (c *Client) waitForSocket(wait time.Duration) error {
	deadline := time.Now().Add(wait)
	attempts := 0
	for time.Now().Before(deadline) {
		time.Sleep(socketWaitDelay)
		attempts++

		select {
		case <-c.exited:
			return fmt.Errorf("engine exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", c.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", c.socketPath, attempts)
}

// Socket returns the IPC socket path.
func (c *Client) Socket() string {
	return c.socketPath
}

// Exited returns a channel closed when the engine process exits.
func (c *Client) Exited() <-chan struct{} {
	return c.exited
}

// Running reports whether the engine still responds to IPC commands.
func (c *Client) Running() bool {
	select {
	case <-c.exited:
		return false
	default:
	}
	_, err := c.Command("get_property", "pid")
	return err == nil
}

// Close asks the engine to quit, escalating to a kill after a grace period,
// and removes the socket file.
func (c *Client) Close() error {
	_, _ = c.Command("quit")

	select {
	case <-c.exited:
	case <-time.After(quitGracePeriod):
		if c.cmd != nil && c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
		}
	}

	_ = os.Remove(c.socketPath)
	return nil
}
