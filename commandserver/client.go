package commandserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/shibukawa/spokenform/dispatch"
	"go.uber.org/zap"
)

const (
	RequestFile  = "request.json"
	ResponseFile = "response.json"

	DefaultTimeout = 3 * time.Second
)

// Sentinel errors
var (
	ErrTimeout         = errors.New("timed out waiting for command server response")
	ErrUUIDMismatch    = errors.New("command server response belongs to another request")
	ErrCommandFailed   = errors.New("command server reported an error")
	ErrRequestInFlight = errors.New("another command server request is in flight")
)

// Request is the content of request.json.
type Request struct {
	CommandID           string `json:"commandId"`
	Args                []any  `json:"args"`
	WaitForFinish       bool   `json:"waitForFinish"`
	ReturnCommandOutput bool   `json:"returnCommandOutput"`
	UUID                string `json:"uuid"`
}

// ResponseError is the error reported by the editor.
type ResponseError struct {
	Message string `json:"message"`
}

// Response is the content of response.json.
type Response struct {
	UUID        string          `json:"uuid"`
	ReturnValue json.RawMessage `json:"returnValue,omitempty"`
	Error       *ResponseError  `json:"error,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// DefaultDir returns the communication directory the editor extension uses.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("vscode-command-server-%d", os.Getuid()))
}

// Client sends requests to the editor command server through files in a
// shared directory. It implements dispatch.Bridge.
type Client struct {
	dir     string
	timeout time.Duration
	trigger Trigger
	logger  *zap.Logger
	newID   func() string
}

var _ dispatch.Bridge = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithDir sets the communication directory.
func WithDir(dir string) Option {
	return func(c *Client) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithTimeout sets how long to wait for a response.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client that fires trigger after each request is written.
func NewClient(trigger Trigger, options ...Option) *Client {
	c := &Client{
		dir:     DefaultDir(),
		timeout: DefaultTimeout,
		trigger: trigger,
		logger:  zap.NewNop(),
		newID:   func() string { return uuid.New().String() },
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Dir returns the communication directory.
func (c *Client) Dir() string {
	return c.dir
}

// Run sends req and waits for the editor to answer it. Requests without
// WaitForFinish are still awaited: the editor answers them as soon as it has
// read them, so Run blocks until then or until the timeout.
func (c *Client) Run(ctx context.Context, req dispatch.Request) error {
	_, err := c.Call(ctx, req, false)
	return err
}

// Call sends req and returns the value the command returned when
// returnOutput is set.
func (c *Client) Call(ctx context.Context, req dispatch.Request, returnOutput bool) (json.RawMessage, error) {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create communication directory: %w", err)
	}

	requestPath := filepath.Join(c.dir, RequestFile)
	responsePath := filepath.Join(c.dir, ResponseFile)

	if err := c.clearStale(requestPath); err != nil {
		return nil, err
	}
	if err := os.Remove(responsePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove old response: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to watch communication directory: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return nil, fmt.Errorf("failed to watch communication directory: %w", err)
	}

	args := req.Args
	if args == nil {
		args = []any{}
	}

	request := Request{
		CommandID:           req.CommandID,
		Args:                args,
		WaitForFinish:       req.WaitForFinish,
		ReturnCommandOutput: returnOutput,
		UUID:                c.newID(),
	}

	if err := writeJSON(requestPath, request); err != nil {
		return nil, err
	}
	defer c.cleanup(requestPath, responsePath)

	c.logger.Debug("request written",
		zap.String("command", request.CommandID),
		zap.String("uuid", request.UUID),
		zap.String("dir", c.dir))

	if err := c.trigger.Fire(ctx); err != nil {
		return nil, fmt.Errorf("failed to trigger command server: %w", err)
	}

	resp, err := c.waitForResponse(ctx, watcher, responsePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, request.CommandID)
	}

	for _, warning := range resp.Warnings {
		c.logger.Warn("command server warning",
			zap.String("command", request.CommandID),
			zap.String("warning", warning))
	}

	if resp.UUID != request.UUID {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUUIDMismatch, request.UUID, resp.UUID)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommandFailed, resp.Error.Message)
	}

	return resp.ReturnValue, nil
}

// clearStale rejects a request file younger than the timeout and removes an
// older one left behind by a crashed caller.
func (c *Client) clearStale(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect request file: %w", err)
	}

	age := time.Since(info.ModTime())
	if age < c.timeout {
		return fmt.Errorf("%w: %s is %s old", ErrRequestInFlight, path, age.Round(time.Millisecond))
	}

	c.logger.Info("removing stale request", zap.String("path", path), zap.Duration("age", age))

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale request: %w", err)
	}

	return nil
}

func (c *Client) waitForResponse(ctx context.Context, watcher *fsnotify.Watcher, path string) (*Response, error) {
	// the trigger may have been answered before the first event is read
	if resp, ok := readResponse(path); ok {
		return resp, nil
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil, fmt.Errorf("%w: watcher closed", ErrTimeout)
			}
			if filepath.Base(event.Name) != ResponseFile || !event.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}
			if resp, ok := readResponse(path); ok {
				return resp, nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil, fmt.Errorf("%w: watcher closed", ErrTimeout)
			}
			c.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// readResponse reports false while the file is missing or only partly
// written.
func readResponse(path string) (*Response, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}

	return &resp, true
}

func (c *Client) cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("failed to remove file", zap.String("path", path), zap.Error(err))
		}
	}
}

// writeJSON writes through a temporary file so readers never see a partial
// document.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	return nil
}
