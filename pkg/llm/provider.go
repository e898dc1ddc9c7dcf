package llm

import (
	"context"
	"errors"
	"fmt"
)

// FailureReason classifies an unsuccessful generation.
type FailureReason string

const (
	// EmptyCandidates means the backend answered without a usable candidate or part.
	EmptyCandidates FailureReason = "empty_candidates"
	// TransportError covers network, auth, quota and timeout failures.
	TransportError FailureReason = "transport_error"
)

// Outcome is either a success carrying Text or a failure carrying Reason.
type Outcome struct {
	Text   string
	Reason FailureReason
	Err    error // underlying cause, for logging only
}

func Success(text string) Outcome {
	return Outcome{Text: text}
}

func Failure(reason FailureReason, err error) Outcome {
	if err == nil {
		err = errors.New(string(reason))
	}
	return Outcome{Reason: reason, Err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Reason == ""
}

func (o Outcome) String() string {
	if o.OK() {
		return fmt.Sprintf("success(%d chars)", len(o.Text))
	}
	return fmt.Sprintf("failure(%s): %v", o.Reason, o.Err)
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds opts over the defaults.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generator is a boundary adapter to a generative text backend. It performs
// exactly one external call per invocation and never retries.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...Option) Outcome
	Name() string
}

// ClassifyError maps a transport-level error to a failure outcome.
func ClassifyError(ctx context.Context, err error) Outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Failure(TransportError, fmt.Errorf("%w: %v", ctxErr, err))
	}
	return Failure(TransportError, err)
}
