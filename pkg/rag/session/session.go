package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"virtual-assistant-be/pkg/rag/pipeline"
	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/rules"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrTurnInFlight   = errors.New("a turn is already in progress")
	ErrTurnDiscarded  = errors.New("conversation was cleared during the turn")
	ErrActionNotFound = errors.New("action was not offered in this conversation")
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
)

type Message struct {
	ID        uuid.UUID            `json:"id"`
	Sender    Sender               `json:"sender"`
	Text      string               `json:"text"`
	CreatedAt time.Time            `json:"created_at"`
	Actions   []rules.ActionButton `json:"actions,omitempty"`
}

// Responder produces assistant replies. pipeline.Pipeline satisfies it.
type Responder interface {
	MatchIntent(text string) (rules.Intent, bool)
	Answer(ctx context.Context, question string) pipeline.Reply
	FollowUp(ctx context.Context, question string) pipeline.Reply
}

// Delay is the simulated typing delay before an intent reply.
type Delay struct {
	Base    time.Duration
	PerRune time.Duration
	Max     time.Duration
}

func DefaultDelay() Delay {
	return Delay{Base: 400 * time.Millisecond, PerRune: 10 * time.Millisecond, Max: 1500 * time.Millisecond}
}

// For grows with the length of text and never exceeds Max.
func (d Delay) For(text string) time.Duration {
	total := d.Base + d.PerRune*time.Duration(len([]rune(text)))
	if d.Max > 0 && total > d.Max {
		return d.Max
	}
	return total
}

type Options struct {
	Delay Delay
	// Supplementary also runs generation after an intent reply and appends
	// the fixed follow-up line when it succeeds.
	Supplementary bool
	Sleep         func(ctx context.Context, d time.Duration) error
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Sleep == nil {
		o.Sleep = sleep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session is the conversation of one widget instance. At most one turn
// runs at a time; Clear may be called at any point.
type Session struct {
	id        string
	responder Responder
	opts      Options

	mu       sync.Mutex
	messages []Message
	awaiting bool
	epoch    uint64
}

func New(id string, responder Responder, opts Options) *Session {
	s := &Session{
		id:        id,
		responder: responder,
		opts:      opts.withDefaults(),
	}
	s.messages = []Message{s.newMessage(SenderAssistant, response.WelcomeMessage, nil)}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Submit runs one turn and returns the assistant messages it appended.
func (s *Session) Submit(ctx context.Context, text string) ([]Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	s.awaiting = true
	epoch := s.epoch
	s.messages = append(s.messages, s.newMessage(SenderUser, text, nil))
	s.mu.Unlock()

	defer s.finish(epoch)

	if in, ok := s.responder.MatchIntent(text); ok {
		return s.intentTurn(ctx, epoch, text, in)
	}

	reply := s.responder.Answer(ctx, text)
	msg := s.newMessage(SenderAssistant, reply.Text, reply.Actions)
	if !s.appendIfCurrent(epoch, msg) {
		return nil, ErrTurnDiscarded
	}
	return []Message{msg}, nil
}

func (s *Session) intentTurn(ctx context.Context, epoch uint64, text string, in rules.Intent) ([]Message, error) {
	// A cancelled wait only shortens the delay.
	_ = s.opts.Sleep(ctx, s.opts.Delay.For(text))

	lead := s.newMessage(SenderAssistant, in.LeadIn, in.Actions)
	if !s.appendIfCurrent(epoch, lead) {
		return nil, ErrTurnDiscarded
	}
	out := []Message{lead}

	if !s.opts.Supplementary {
		return out, nil
	}

	follow := s.responder.FollowUp(ctx, text)
	if follow.Failed || follow.Text == "" {
		return out, nil
	}
	msg := s.newMessage(SenderAssistant, follow.Text, nil)
	if !s.appendIfCurrent(epoch, msg) {
		return out, ErrTurnDiscarded
	}
	return append(out, msg), nil
}

func (s *Session) appendIfCurrent(epoch uint64, msgs ...Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return false
	}
	s.messages = append(s.messages, msgs...)
	return true
}

func (s *Session) finish(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch == epoch {
		s.awaiting = false
	}
}

// Clear resets the history to the welcome message. A turn still in flight
// is abandoned and its replies are dropped.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.awaiting = false
	s.messages = []Message{s.newMessage(SenderAssistant, response.WelcomeMessage, nil)}
}

// Messages returns a copy of the history in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) AwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

func (s *Session) State() State {
	if s.AwaitingResponse() {
		return StateAwaitingResponse
	}
	return StateIdle
}

// Trigger invokes the hook for action, provided some message offered it.
func (s *Session) Trigger(action string, hooks Hooks) error {
	if !s.offered(action) {
		return ErrActionNotFound
	}
	return hooks.Trigger(action)
}

func (s *Session) offered(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		for _, a := range m.Actions {
			if a.Action == action {
				return true
			}
		}
	}
	return false
}

func (s *Session) newMessage(sender Sender, text string, actions []rules.ActionButton) Message {
	return Message{
		ID:        uuid.New(),
		Sender:    sender,
		Text:      text,
		CreatedAt: s.opts.Now(),
		Actions:   actions,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
