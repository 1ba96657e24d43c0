package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id,omitempty"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Event lines broadcast to every client share the stream and carry Event instead of RequestID.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

var requestIDs atomic.Int64

// sendCommand sends a JSON-IPC command to mpv via its Unix domain socket,
// retrying transient connection errors. mpv-side errors are not retried.
func (m *MPV) sendCommand(command ...interface{}) (interface{}, error) {
	socketPath, ok := m.endpoint()
	if !ok {
		return nil, ErrNotRunning
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(socketPath, command)
		if err == nil {
			return result, nil
		}

		var mpvErr *commandError
		if errors.As(err, &mpvErr) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// commandError is an error reported by mpv itself, as opposed to a transport failure.
type commandError struct {
	command string
	reason  string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.command, e.reason)
}

// doSendCommand performs a single IPC command attempt on a short-lived connection.
func doSendCommand(socketPath string, command []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestIDs.Add(1)

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	dec := json.NewDecoder(conn)
	for {
		var resp ipcResponse
		if err := dec.Decode(&resp); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			name, _ := command[0].(string)
			return nil, &commandError{command: name, reason: resp.Error}
		}

		return resp.Data, nil
	}
}
