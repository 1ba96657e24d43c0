package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/reel-player/reel/log"
)

// EventCallback receives property changes (name, value) and other mpv events (event name, full payload).
type EventCallback func(name string, data interface{})

// observed lists the properties mpv pushes to the listener, keyed by observer id.
var observed = []struct {
	id   int
	name string
}{
	{1, "time-pos"},
	{2, "pause"},
	{3, "eof-reached"},
	{4, "duration"},
	{5, "volume"},
	{6, "idle-active"},
}

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start opens a persistent connection, registers the property observers on it and starts the read loop.
// mpv scopes observers to the client connection that registered them, so both must share one socket.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for _, prop := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", prop.id, prop.name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the event listener and waits for the read loop to return.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	close(el.stopCh)
	el.conn.Close()
	el.listening = false
	el.mu.Unlock()

	<-el.done
}

// readLoop continuously reads newline-delimited JSON events from the persistent connection.
func (el *EventListener) readLoop() {
	defer close(el.done)

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			// an unterminated last line is completed by the next read
			if i == len(lines)-1 {
				if line != "" {
					remainder = []byte(line)
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			el.processEvent(line)
		}
	}
}

// processEvent parses and dispatches a single mpv event line. Command replies carry no "event" key and are dropped.
func (el *EventListener) processEvent(line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	switch eventType {
	case "property-change":
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
	default:
		el.callback(eventType, event)
	}
}
