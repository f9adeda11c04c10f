// Package widget is the embeddable feedback runtime: a per-instance state
// machine that drives the trigger and overlay, validates the draft, and hands
// one submission per Submit to the ingestion endpoint.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// User-visible messages. The browser script renders the same strings.
const (
	MsgEmptyFeedback = "Please enter your feedback."
	MsgThankYou      = "Thank you for your feedback!"
	MsgRejected      = "Failed to submit feedback. Please try again."
	MsgTransport     = "An error occurred. Please try again."
)

var (
	ErrFormClosed = errors.New("widget: feedback form is not open")
	// ErrRejected means the endpoint answered but did not report success.
	ErrRejected = errors.New("widget: submission rejected")
)

type State int

const (
	StateIdle State = iota
	StateFormOpen
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFormOpen:
		return "form-open"
	default:
		return "unknown"
	}
}

type ColorScheme int

const (
	Light ColorScheme = iota
	Dark
)

// Submission is the body the runtime posts to the ingestion endpoint.
type Submission struct {
	WebsiteID string `json:"websiteId"`
	Feedback  string `json:"feedback"`
}

type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// Notifier shows a blocking acknowledgment to the user.
type Notifier interface {
	Alert(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

type Option func(*Widget)

func WithNotifier(n Notifier) Option {
	return func(w *Widget) { w.notifier = n }
}

// WithColorScheme sets how the host's light/dark preference is read when the form opens.
func WithColorScheme(fn func() ColorScheme) Option {
	return func(w *Widget) { w.scheme = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

type Widget struct {
	cfg       Config
	submitter Submitter
	notifier  Notifier
	scheme    func() ColorScheme
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	draft    string
	theme    ColorScheme
	inflight sync.WaitGroup
}

// Init validates cfg and returns a widget whose trigger is already part of its view.
func Init(cfg Config, submitter Submitter, opts ...Option) (*Widget, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, errors.New("widget: submitter is required")
	}

	w := &Widget{
		cfg:       cfg,
		submitter: submitter,
		scheme:    func() ColorScheme { return Light },
		logger:    slog.Default(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = NotifierFunc(func(msg string) {
			w.logger.Info("widget alert", "message", msg)
		})
	}
	w.logger = w.logger.With("component", "widget", "website_id", cfg.WebsiteID)

	return w, nil
}

func (w *Widget) Config() Config {
	return w.cfg
}

// Open shows the form. It returns false and leaves everything untouched when
// the form is already open.
func (w *Widget) Open() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateFormOpen {
		return false
	}
	w.state = StateFormOpen
	w.draft = ""
	w.theme = w.scheme()
	return true
}

func (w *Widget) SetDraft(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateFormOpen {
		return ErrFormClosed
	}
	w.draft = text
	return nil
}

// Submit sends the draft. A blank draft raises MsgEmptyFeedback and keeps the
// form open. Otherwise the form closes at once and the result is announced
// when the request finishes; cancelling ctx does not abort it.
func (w *Widget) Submit(ctx context.Context) bool {
	w.mu.Lock()
	if w.state != StateFormOpen {
		w.mu.Unlock()
		return false
	}
	text := w.draft
	if strings.TrimSpace(text) == "" {
		w.mu.Unlock()
		w.notifier.Alert(MsgEmptyFeedback)
		return false
	}
	w.state = StateIdle
	w.draft = ""
	w.inflight.Add(1)
	w.mu.Unlock()

	sub := Submission{WebsiteID: w.cfg.WebsiteID, Feedback: text}
	go func() {
		defer w.inflight.Done()
		err := w.submitter.Submit(context.WithoutCancel(ctx), sub)
		if err != nil {
			w.logger.Warn("feedback submission failed", "error", err)
		}
		w.notifier.Alert(resultMessage(err))
	}()
	return true
}

// Close hides the form and drops the draft.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateIdle
	w.draft = ""
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Wait blocks until every dispatched submission has been answered and announced.
func (w *Widget) Wait() {
	w.inflight.Wait()
}

func resultMessage(err error) string {
	switch {
	case err == nil:
		return MsgThankYou
	case errors.Is(err, ErrRejected):
		return MsgRejected
	default:
		return MsgTransport
	}
}
