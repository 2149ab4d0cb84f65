package mpv

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

type ipcCommand struct {
	Command []any `json:"command"`
}

type ipcResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
}

const (
	ipcMaxRetries         = 3
	ipcRetryDelay         = 100 * time.Millisecond
	defaultCommandTimeout = 1 * time.Second
	ipcReadBufSize        = 4096
)

// Command sends a JSON-IPC command and returns the response data. Transient
// connection failures are retried a small fixed number of times.
func (c *Client) Command(args ...any) (any, error) {
	timeout := c.commandTimeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	var lastErr error
	for attempt := 0; attempt < ipcMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(ipcRetryDelay)
		}
		result, err := sendCommand(c.socketPath, args, timeout)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", ipcMaxRetries, lastErr)
}

// sendCommand performs a single request/response exchange on a fresh
// connection. mpv's protocol is newline-delimited JSON.
func sendCommand(socketPath string, args []any, timeout time.Duration) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: args})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	buf := make([]byte, ipcReadBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var resp ipcResponse
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if resp.Error != "" && resp.Error != "success" {
		return nil, fmt.Errorf("engine error: %s", resp.Error)
	}
	return resp.Data, nil
}
