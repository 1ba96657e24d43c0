// Package inline provides the non-interactive mode: load media headless, report its time label, exit.
package inline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/reel-player/reel/log"
	"github.com/reel-player/reel/playback"
	"github.com/reel-player/reel/player"
	"github.com/samber/mo"
)

var (
	ErrTimeout = errors.New("timed out waiting for the media engine")
	ErrHalted  = errors.New("media engine halted")
	ErrClosed  = errors.New("media engine exited")
)

// seekTolerance is how close a reported position must be to the seek target.
const seekTolerance = time.Second

// Options configure a single inline probe.
type Options struct {
	Engine player.Engine
	URI    string
	Title  string

	// At seeks before reporting.
	At mo.Option[Position]

	Json    bool
	Out     io.Writer
	Timeout time.Duration
}

// Run loads the media without starting playback and prints its time label, or a JSON document.
func Run(options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Timeout <= 0 {
		options.Timeout = 10 * time.Second
	}

	engine := options.Engine
	defer func() {
		if err := engine.Close(); err != nil {
			log.Warnf("close engine: %v", err)
		}
	}()

	session := playback.NewSession(false, engine.Volume())
	controller := playback.NewController(engine, session, false)

	if err := controller.Start(options.URI); err != nil {
		return err
	}

	deadline := time.After(options.Timeout)

	if err := await(engine, controller, deadline, func(ev player.Event) bool {
		_, ok := ev.(player.Ready)
		return ok
	}); err != nil {
		return err
	}

	if at, ok := options.At.Get(); ok {
		target := at.Resolve(session.Duration)
		log.Infof("inline: seeking to %s", target)

		if err := engine.Seek(target); err != nil {
			return fmt.Errorf("seek: %w", err)
		}

		if err := await(engine, controller, deadline, func(ev player.Event) bool {
			tc, ok := ev.(player.TimeChanged)
			return ok && (tc.Position-target).Abs() < seekTolerance
		}); err != nil {
			return err
		}
	}

	label := playback.FormatTime(session.Position, session.Duration)

	if options.Json {
		data, err := asJson(options.URI, options.Title, engine.Status(), session.Position, session.Duration, label, engine.Volume())
		if err != nil {
			return err
		}
		_, err = options.Out.Write(append(data, '\n'))
		return err
	}

	_, err := fmt.Fprintln(options.Out, label)
	return err
}

// await feeds engine events to the controller until done accepts one.
func await(engine player.Engine, controller *playback.Controller, deadline <-chan time.Time, done func(player.Event) bool) error {
	for {
		select {
		case ev, ok := <-engine.Events():
			if !ok {
				return ErrClosed
			}
			controller.Handle(ev)

			switch ev := ev.(type) {
			case player.StatusChanged:
				if ev.Status == player.StatusHalted {
					return fmt.Errorf("%w: %s", ErrHalted, ev.Reason)
				}
			case player.Closed:
				return ErrClosed
			}

			if done(ev) {
				return nil
			}
		case <-deadline:
			return ErrTimeout
		}
	}
}
