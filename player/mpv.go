package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reel-player/reel/filesystem"
	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/where"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	socketPollDelay = 100 * time.Millisecond
	eventBuffer     = 64
	quitTimeout     = 3 * time.Second
)

// Options configure how the mpv process is launched.
type Options struct {
	// Executable is the mpv binary name or path.
	Executable string

	// Title is shown as the mpv window title.
	Title string

	// Headless disables video and audio output, for probing media without a window.
	Headless bool

	// ReadyTimeout bounds how long to wait for the IPC socket after launch.
	ReadyTimeout time.Duration
}

// mpvState is the engine state mirrored from observed mpv properties.
type mpvState struct {
	loaded    bool
	announced bool
	started   bool
	paused    bool
	idle      bool
	halted    bool
	eof       bool
	position  time.Duration
	duration  time.Duration
	volume    float64
	status    Status
}

// MPV implements Engine using mpv's JSON-IPC protocol.
// mpv runs with keep-open, so reaching the end pauses on the last frame and raises eof-reached.
type MPV struct {
	opts   Options
	events chan Event

	// mu serializes socket writes
	mu sync.Mutex

	// stateMu guards everything below, including the process fields set by launch
	stateMu    sync.Mutex
	state      mpvState
	autoplay   bool
	cycles     int
	cmd        *exec.Cmd
	exited     chan struct{}
	socketPath string
	closing    bool
}

// NewMPV creates an MPV engine. The process is started by the first SetSource.
func NewMPV(opts Options) *MPV {
	if opts.Executable == "" {
		opts.Executable = "mpv"
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 10 * time.Second
	}

	return &MPV{
		opts:     opts,
		events:   make(chan Event, eventBuffer),
		autoplay: true,
		cycles:   1,
		state:    mpvState{volume: 1},
	}
}

// SetSource loads the media. The first call launches mpv; later calls replace the loaded file.
func (m *MPV) SetSource(uri string) error {
	target, err := sanitizeMediaTarget(uri)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.stateMu.Lock()
	volume := m.state.volume
	m.state = mpvState{volume: volume}
	m.stateMu.Unlock()

	if m.running() {
		_, err := m.sendCommand("loadfile", target, "replace")
		return err
	}

	return m.launch(target)
}

func (m *MPV) launch(target string) error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	socketPath := filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))

	m.stateMu.Lock()
	if m.closing {
		m.stateMu.Unlock()
		return ErrClosed
	}

	cmd := exec.Command(m.opts.Executable, m.buildArgs(socketPath, target)...)
	cmd.SysProcAttr = sysProcAttr()

	log.WithFields(logrus.Fields{"socket": socketPath, "target": target}).Info("starting mpv")

	if err := cmd.Start(); err != nil {
		m.stateMu.Unlock()
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.cmd, m.exited = cmd, exited
	m.stateMu.Unlock()

	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	socketErr := waitForSocket(socketPath, exited, m.opts.ReadyTimeout)

	m.stateMu.Lock()
	closing := m.closing
	if socketErr == nil && !closing {
		m.socketPath = socketPath
	}
	m.stateMu.Unlock()

	switch {
	case closing:
		_ = killProcess(cmd)
		<-exited
		_ = filesystem.API().Remove(socketPath)
		return ErrClosed
	case socketErr != nil:
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", socketErr)
	}

	listener := NewEventListener(socketPath, m.handle)
	if err := listener.Start(); err != nil {
		_ = killProcess(cmd)
		return err
	}

	go m.watch(exited, listener)
	return nil
}

// watch reports the process exit as Closed and closes the events channel.
func (m *MPV) watch(exited <-chan struct{}, listener *EventListener) {
	<-exited
	listener.Stop()

	m.stateMu.Lock()
	m.state.status = StatusStopped
	m.stateMu.Unlock()

	log.Info("mpv exited")
	select {
	case m.events <- Closed{}:
	default:
	}
	close(m.events)
}

func (m *MPV) buildArgs(socketPath, target string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--keep-open=yes",
		"--idle=yes",
		fmt.Sprintf("--loop-file=%s", loopFileValue(m.cycles)),
		fmt.Sprintf("--volume=%d", int(m.state.volume*100+0.5)),
	}

	if title := sanitizeTitle(m.opts.Title); title != "" {
		args = append(args,
			fmt.Sprintf("--force-media-title=%s", title),
			fmt.Sprintf("--title=%s", title),
		)
	}

	if m.opts.Headless {
		args = append(args, "--vo=null", "--ao=null", "--force-window=no")
	} else {
		args = append(args, "--force-window=yes")
	}

	if !m.autoplay {
		args = append(args, "--pause")
	}

	return append(args, "--", target)
}

// loopFileValue maps a cycle count to mpv's loop-file option, which counts repetitions after the first play.
func loopFileValue(cycles int) string {
	switch {
	case cycles == Infinite:
		return "inf"
	case cycles <= 1:
		return "no"
	default:
		return strconv.Itoa(cycles - 1)
	}
}

// waitForSocket polls until the IPC socket accepts connections, the process exits, or timeout elapses.
func waitForSocket(socketPath string, exited <-chan struct{}, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-exited:
			return fmt.Errorf("mpv exited before socket was ready")
		case <-time.After(socketPollDelay):
		}

		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %s", socketPath, timeout)
}

func (m *MPV) running() bool {
	_, ok := m.endpoint()
	return ok
}

// endpoint returns the IPC socket of a live mpv process.
func (m *MPV) endpoint() (string, bool) {
	m.stateMu.Lock()
	socketPath, exited := m.socketPath, m.exited
	m.stateMu.Unlock()

	if socketPath == "" || exited == nil {
		return "", false
	}
	select {
	case <-exited:
		return "", false
	default:
		return socketPath, true
	}
}

func (m *MPV) Play() error {
	_, err := m.sendCommand("set_property", "pause", false)
	return err
}

func (m *MPV) Pause() error {
	_, err := m.sendCommand("set_property", "pause", true)
	return err
}

func (m *MPV) Seek(position time.Duration) error {
	_, err := m.sendCommand("seek", max(position.Seconds(), 0), "absolute")
	return err
}

// SetVolume clamps volume to [0, 1] and applies it as mpv's 0-100 volume.
func (m *MPV) SetVolume(volume float64) error {
	volume = lo.Clamp(volume, 0, 1)

	m.stateMu.Lock()
	m.state.volume = volume
	m.stateMu.Unlock()

	if !m.running() {
		return nil
	}
	_, err := m.sendCommand("set_property", "volume", volume*100)
	return err
}

func (m *MPV) SetCycleCount(n int) error {
	m.stateMu.Lock()
	m.cycles = n
	m.stateMu.Unlock()

	if !m.running() {
		return nil
	}
	_, err := m.sendCommand("set_property", "loop-file", loopFileValue(n))
	return err
}

// SetAutoPlay takes effect on the next launch; a loaded file keeps its current pause state.
func (m *MPV) SetAutoPlay(autoplay bool) error {
	m.stateMu.Lock()
	m.autoplay = autoplay
	m.stateMu.Unlock()
	return nil
}

func (m *MPV) Status() Status {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state.status
}

func (m *MPV) CurrentTime() time.Duration {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state.position
}

func (m *MPV) Duration() time.Duration {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state.duration
}

func (m *MPV) Volume() float64 {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state.volume
}

func (m *MPV) Events() <-chan Event {
	return m.events
}

// Close shuts down the mpv process and removes its socket.
// A launch still waiting for the socket is aborted and its process killed.
func (m *MPV) Close() error {
	m.stateMu.Lock()
	m.closing = true
	cmd, exited, socketPath := m.cmd, m.exited, m.socketPath
	m.stateMu.Unlock()

	if cmd == nil {
		return nil
	}

	if socketPath == "" {
		_ = killProcess(cmd)
		select {
		case <-exited:
		case <-time.After(quitTimeout):
		}
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-exited:
	case <-time.After(quitTimeout):
		_ = killProcess(cmd)
	}

	_ = filesystem.API().Remove(socketPath)
	return nil
}

// handle is the listener callback. It runs on the listener goroutine.
func (m *MPV) handle(name string, data interface{}) {
	m.stateMu.Lock()
	events := m.state.apply(name, data)
	unannounced := name == "file-loaded" && !m.state.announced
	m.stateMu.Unlock()

	for _, ev := range events {
		m.emit(ev)
	}

	if unannounced {
		m.resolveDuration()
	}
}

// resolveDuration asks mpv for the duration when file-loaded arrived before its property change.
// Media that has none, such as a live stream, is announced with a zero duration.
func (m *MPV) resolveDuration() {
	data, err := m.sendCommand("get_property", "duration")
	if err != nil {
		log.Debugf("duration unavailable: %v", err)
	}

	m.stateMu.Lock()
	var events []Event
	if d, ok := data.(float64); ok {
		events = m.state.apply("duration", d)
	}
	events = append(events, m.state.announce(true)...)
	m.stateMu.Unlock()

	for _, ev := range events {
		m.emit(ev)
	}
}

// emit delivers ev to the consumer. Position updates are dropped when the consumer lags; a newer one follows.
func (m *MPV) emit(ev Event) {
	if _, ok := ev.(TimeChanged); ok {
		select {
		case m.events <- ev:
		default:
		}
		return
	}

	m.stateMu.Lock()
	exited := m.exited
	m.stateMu.Unlock()

	select {
	case m.events <- ev:
	case <-exited:
	}
}

// announce returns Ready once per loaded file, when the duration is known or force is set.
func (s *mpvState) announce(force bool) []Event {
	if !s.loaded || s.announced || (s.duration <= 0 && !force) {
		return nil
	}
	s.announced = true
	return []Event{Ready{Duration: s.duration}}
}

// apply folds one mpv notification into the state and returns the events it produces.
func (s *mpvState) apply(name string, data interface{}) []Event {
	var events []Event

	switch name {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			s.position = seconds(pos)
			if s.duration > 0 && s.position > s.duration {
				s.position = s.duration
			}
			events = append(events, TimeChanged{Position: s.position, Duration: s.duration})
		}
	case "duration":
		if d, ok := data.(float64); ok {
			s.duration = seconds(d)
			events = append(events, s.announce(false)...)
		}
	case "volume":
		if v, ok := data.(float64); ok {
			s.volume = lo.Clamp(v/100, 0, 1)
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			s.paused = paused
			if !paused && s.loaded {
				s.started = true
			}
		}
	case "idle-active":
		if idle, ok := data.(bool); ok {
			s.idle = idle
		}
	case "eof-reached":
		eof, _ := data.(bool)
		if eof && !s.eof {
			events = append(events, EndOfMedia{})
		}
		s.eof = eof
	case "file-loaded":
		s.loaded = true
		s.halted = false
		s.idle = false
		if !s.paused {
			s.started = true
		}
		events = append(events, s.announce(false)...)
	case "end-file":
		payload, _ := data.(map[string]interface{})
		if reason, _ := payload["reason"].(string); reason == "error" {
			s.halted = true
			detail, _ := payload["file_error"].(string)
			s.status = StatusHalted
			return append(events, StatusChanged{Status: StatusHalted, Reason: detail})
		}
	}

	if status := s.derive(); status != s.status {
		s.status = status
		events = append(events, StatusChanged{Status: status})
	}

	return events
}

// derive computes the externally visible Status from the mirrored properties.
func (s *mpvState) derive() Status {
	switch {
	case s.halted:
		return StatusHalted
	case !s.loaded:
		return StatusUnknown
	case s.idle:
		return StatusStopped
	case s.paused && !s.started:
		return StatusReady
	case s.paused:
		return StatusPaused
	default:
		return StatusPlaying
	}
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle flattens the title onto a single line.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
