package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MaxTextLength is the longest text, in characters, passed to the editor as a
// literal argument.
const MaxTextLength = 200

// TruncationNotice is shown when text is cut to MaxTextLength.
const TruncationNotice = "Search text is longer than 200 characters; truncating"

// Sentinel errors
var (
	ErrBridge       = errors.New("rpc bridge call failed")
	ErrEmptyCommand = errors.New("command name is empty")
)

// Request is a single call to the editor.
type Request struct {
	CommandID     string
	Args          []any
	WaitForFinish bool
}

// Bridge carries requests to the editor process. Run returns once the editor
// accepted the request, or once it finished when WaitForFinish is set.
type Bridge interface {
	Run(ctx context.Context, req Request) error
}

// Notifier shows a message to the user without waiting for them.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// Dispatcher sends commands to the editor. Calls are not retried.
type Dispatcher struct {
	bridge   Bridge
	notifier Notifier
	logger   *zap.Logger
	sleep    func(time.Duration)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithNotifier sets the notifier used for truncation notices.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) {
		d.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithSleep replaces time.Sleep for Yield.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) {
		d.sleep = sleep
	}
}

// New creates a dispatcher on top of bridge.
func New(bridge Bridge, options ...Option) *Dispatcher {
	d := &Dispatcher{
		bridge:   bridge,
		notifier: NotifierFunc(func(string) {}),
		logger:   zap.NewNop(),
		sleep:    time.Sleep,
	}

	for _, option := range options {
		option(d)
	}

	return d
}

// RunNoWait sends a command without waiting for the editor to finish it.
func (d *Dispatcher) RunNoWait(ctx context.Context, command string, args ...any) error {
	return d.run(ctx, Request{CommandID: command, Args: args})
}

// RunAndWait sends a command and blocks until the editor finished it.
func (d *Dispatcher) RunAndWait(ctx context.Context, command string, args ...any) error {
	return d.run(ctx, Request{CommandID: command, Args: args, WaitForFinish: true})
}

// RunNoWaitThenYield sends a command without waiting and then pauses for
// delay so that the side effect can land before the caller continues. The
// pause is not cancelled and nothing checks that the effect happened.
func (d *Dispatcher) RunNoWaitThenYield(ctx context.Context, delay time.Duration, command string, args ...any) error {
	if err := d.RunNoWait(ctx, command, args...); err != nil {
		return err
	}

	d.Yield(delay)

	return nil
}

// Yield pauses for delay.
func (d *Dispatcher) Yield(delay time.Duration) {
	if delay <= 0 {
		return
	}

	d.sleep(delay)
}

// LimitText cuts text to MaxTextLength characters. When it cuts, one notice
// is shown; it never fails.
func (d *Dispatcher) LimitText(text string) string {
	limited, truncated := Truncate(text, MaxTextLength)
	if truncated {
		d.logger.Info("truncating text argument", zap.Int("limit", MaxTextLength))
		d.notifier.Notify(TruncationNotice)
	}

	return limited
}

// Truncate returns the first limit characters of text and whether text was
// longer than that.
func Truncate(text string, limit int) (string, bool) {
	count := 0
	for i := range text {
		if count == limit {
			return text[:i], true
		}
		count++
	}

	return text, false
}

func (d *Dispatcher) run(ctx context.Context, req Request) error {
	if req.CommandID == "" {
		return ErrEmptyCommand
	}

	start := time.Now()
	err := d.bridge.Run(ctx, req)

	fields := []zap.Field{
		zap.String("command", req.CommandID),
		zap.Bool("wait", req.WaitForFinish),
		zap.Int("args", len(req.Args)),
		zap.Duration("elapsed", time.Since(start)),
	}

	if err != nil {
		d.logger.Warn("command failed", append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: %s: %w", ErrBridge, req.CommandID, err)
	}

	d.logger.Debug("command sent", fields...)

	return nil
}
