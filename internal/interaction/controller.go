package interaction

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"paige/internal/backend"
	"paige/internal/conversation"
	"paige/internal/selection"
)

var (
	ErrBusy               = errors.New("a request is already in flight")
	ErrNotOpen            = errors.New("popup is not open")
	ErrEmptyPrompt        = errors.New("prompt is empty")
	ErrUnknownQuickPrompt = errors.New("unknown quick prompt")
)

// Log is the part of the conversation store the controller may use.
type Log interface {
	Append(ctx context.Context, selectedText, question, answer string) (conversation.Record, error)
	All() []conversation.Record
	Len() int
}

// Notifier receives every state change in order. Publish is called with the
// controller lock held and must not call back into the Controller.
type Notifier interface {
	Publish(State)
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithQuickPrompts(prompts []QuickPrompt) Option {
	return func(c *Controller) { c.prompts = append([]QuickPrompt(nil), prompts...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller is the popup state machine. All transitions and log appends
// happen under one lock; the backend call is the only point where it waits,
// and at most one call is in flight. Closing the popup does not cancel a
// pending call: its result is still applied and, on success, recorded.
type Controller struct {
	backend  backend.Client
	log      Log
	notifier Notifier
	prompts  []QuickPrompt
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	inFlight  bool
	submitted bool
	wg        sync.WaitGroup
}

func NewController(b backend.Client, log Log, opts ...Option) *Controller {
	c := &Controller{
		backend: b,
		log:     log,
		prompts: DefaultQuickPrompts(),
		state:   State{Phase: PhaseClosed},
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("component", "interaction"))
	return c
}

// Select opens the popup with freshly captured text, replacing whatever was shown.
func (c *Controller) Select(ev selection.Event) {
	text := strings.TrimSpace(ev.Text)
	if !ev.InsideViewport || text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitionLocked(State{Phase: PhaseOpen, SelectedText: text, Draft: c.state.Draft})
	c.logger.Debug("popup opened", zap.Int("selected_len", len(text)))
}

// SetDraft stores the free-text question as it is being typed.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state
	next.Draft = text
	c.transitionLocked(next)
}

// Submit sends selectedText + "\n\n" + prompt to the backend.
// It returns ErrBusy while another request is pending and ErrNotOpen
// unless the popup is open; in both cases nothing changes.
func (c *Controller) Submit(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		c.logger.Debug("submit rejected, request in flight")
		return ErrBusy
	}
	if c.state.Phase != PhaseOpen {
		return ErrNotOpen
	}

	next := State{
		Phase:        PhaseSubmitting,
		SelectedText: c.state.SelectedText,
		Prompt:       prompt,
		Draft:        c.state.Draft,
	}
	if !c.submitted && c.log.Len() == 0 {
		next.Advisory = AdvisoryMessage
	}
	c.submitted = true
	c.inFlight = true
	c.transitionLocked(next)

	c.wg.Add(1)
	go c.run(next.SelectedText, prompt)
	return nil
}

// SubmitQuick submits one of the configured quick prompts by id.
func (c *Controller) SubmitQuick(id string) error {
	for _, p := range c.prompts {
		if p.ID == id {
			return c.Submit(p.Text)
		}
	}
	return ErrUnknownQuickPrompt
}

func (c *Controller) run(selectedText, prompt string) {
	defer c.wg.Done()
	ctx := context.Background()
	answer, err := c.backend.Ask(ctx, ComposePrompt(selectedText, prompt))
	c.complete(ctx, selectedText, prompt, answer, err)
}

func (c *Controller) complete(ctx context.Context, selectedText, prompt, answer string, askErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if c.state.Phase != PhaseSubmitting || c.state.SelectedText != selectedText {
		c.logger.Warn("applying late result after the popup moved on",
			zap.String("current_phase", string(c.state.Phase)))
	}

	if askErr != nil {
		c.logger.Error("backend request failed", zap.Error(askErr))
		c.transitionLocked(State{Phase: PhaseFailed, SelectedText: selectedText, Error: FailureMessage})
		return
	}

	rec, err := c.log.Append(ctx, selectedText, prompt, answer)
	if err != nil {
		c.logger.Error("failed to persist conversation", zap.Error(err), zap.Int64("id", rec.ID))
	} else {
		c.logger.Info("conversation recorded", zap.Int64("id", rec.ID))
	}
	c.transitionLocked(State{Phase: PhaseAnswered, SelectedText: selectedText, Answer: answer})
}

// Close hides the popup. A pending request keeps running.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitionLocked(State{Phase: PhaseClosed, Draft: c.state.Draft})
}

// transitionLocked installs next, carrying over the version counter and the
// in-flight flag. The draft is cleared once a submission has completed.
func (c *Controller) transitionLocked(next State) {
	if next.Phase == PhaseAnswered || next.Phase == PhaseFailed {
		next.Draft = ""
	}
	next.Version = c.state.Version + 1
	next.InFlight = c.inFlight
	c.state = next
	if c.notifier != nil {
		c.notifier.Publish(next)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) History() []conversation.Record {
	return c.log.All()
}

func (c *Controller) QuickPrompts() []QuickPrompt {
	return append([]QuickPrompt(nil), c.prompts...)
}

// Wait blocks until no request is in flight or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
