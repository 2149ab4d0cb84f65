package mpv

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"log/slog"

	"reelcut/internal/logging"
)

// EventKind classifies the engine notifications the listener forwards.
type EventKind int

const (
	// EventFileLoaded fires when the engine finished loading media.
	EventFileLoaded EventKind = iota
	// EventPosition fires on playback position change notifications.
	EventPosition
	// EventEndFile fires when playback of the current media ends for any
	// reason, including decode errors.
	EventEndFile
)

// Event is one engine notification.
type Event struct {
	Kind     EventKind
	Position float64
	Reason   string
}

// EndReasonError is the end-file reason mpv reports on decode or network
// failure of the loaded media.
const EndReasonError = "error"

// EventCallback receives engine notifications on the listener goroutine.
type EventCallback func(Event)

// Listener provides real-time engine event monitoring via observe_property
// and the native event stream on a persistent connection.
type Listener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	logger     *slog.Logger
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewListener creates an event listener for the client's socket.
func (c *Client) NewListener(callback EventCallback, logger *slog.Logger) *Listener {
	return &Listener{
		socketPath: c.socketPath,
		callback:   callback,
		logger:     logging.NewComponentLogger(logger, "engine-events"),
		stopCh:     make(chan struct{}),
	}
}

// Start subscribes to property change notifications and begins the read loop.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		return nil
	}

	conn, err := net.Dial("unix", l.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// Property observers are scoped to the connection that registers them.
	// The subscription has to go out on this connection or the read loop
	// will never see time-pos changes.
	payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", 1, "time-pos"}})
	if err != nil {
		conn.Close()
		return fmt.Errorf("encode observe command: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		conn.Close()
		return fmt.Errorf("observe time-pos: %w", err)
	}

	l.conn = conn
	l.listening = true

	go l.readLoop()
	return nil
}

// Stop terminates the listener and closes its connection.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.listening {
		return
	}
	close(l.stopCh)
	if l.conn != nil {
		l.conn.Close()
	}
	l.listening = false
}

// readLoop consumes newline-delimited JSON events off the persistent
// connection until the listener is stopped or the connection drops.
func (l *Listener) readLoop() {
	defer func() {
		l.mu.Lock()
		l.listening = false
		l.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-l.stopCh:
			return
		default:
		}

		if err := l.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := l.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue
			}
			select {
			case <-l.stopCh:
			default:
				l.logger.Warn("event listener read error", logging.Error(err))
			}
			return
		}

		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}
			l.dispatch(line)
		}
	}
}

func (l *Listener) dispatch(line string) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return
	}

	eventType, _ := raw["event"].(string)
	switch eventType {
	case "file-loaded":
		l.callback(Event{Kind: EventFileLoaded})
	case "end-file":
		reason, _ := raw["reason"].(string)
		l.callback(Event{Kind: EventEndFile, Reason: reason})
	case "property-change":
		name, _ := raw["name"].(string)
		if name != "time-pos" {
			return
		}
		position, ok := raw["data"].(float64)
		if !ok {
			return
		}
		l.callback(Event{Kind: EventPosition, Position: position})
	}
}
