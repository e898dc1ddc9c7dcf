package pipeline

import (
	"context"
	"time"

	"virtual-assistant-be/internal/pkg/logger"
	"virtual-assistant-be/pkg/knowledge"
	"virtual-assistant-be/pkg/llm"
	"virtual-assistant-be/pkg/rag/intent"
	"virtual-assistant-be/pkg/rag/prompt"
	"virtual-assistant-be/pkg/rag/ranker"
	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/rules"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	module = "Pipeline"

	DefaultTimeout = 30 * time.Second
)

// DocumentSource supplies the knowledge document. knowledge.Store satisfies it.
type DocumentSource interface {
	Load(ctx context.Context) knowledge.Result
}

// Reply is the assistant side of one turn.
type Reply struct {
	Text    string
	Actions []rules.ActionButton
	// Intent names the intent that attached Actions, if any.
	Intent string
	// Failed reports that generation failed and Text is the apology.
	Failed bool
	// Fallback reports that the built-in document was used.
	Fallback bool
}

type Options struct {
	MaxSections int
	Timeout     time.Duration
}

// Pipeline runs retrieval, generation and formatting for a single question.
// It holds no per-conversation state and is safe for concurrent use.
type Pipeline struct {
	docs       DocumentSource
	ranker     *ranker.Ranker
	builder    *prompt.Builder
	generator  llm.Generator
	classifier *intent.Classifier
	formatter  *response.Formatter
	logger     logger.ILogger
	tracer     trace.Tracer

	maxSections int
	timeout     time.Duration
}

func New(
	docs DocumentSource,
	rk *ranker.Ranker,
	builder *prompt.Builder,
	generator llm.Generator,
	classifier *intent.Classifier,
	formatter *response.Formatter,
	log logger.ILogger,
	opts Options,
) *Pipeline {
	if opts.MaxSections <= 0 {
		opts.MaxSections = ranker.DefaultMaxSections
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Pipeline{
		docs:        docs,
		ranker:      rk,
		builder:     builder,
		generator:   generator,
		classifier:  classifier,
		formatter:   formatter,
		logger:      log,
		tracer:      otel.Tracer("virtual-assistant-be/pkg/rag/pipeline"),
		maxSections: opts.MaxSections,
		timeout:     opts.Timeout,
	}
}

// MatchIntent runs the strict intent pass on a raw user message.
func (p *Pipeline) MatchIntent(text string) (rules.Intent, bool) {
	return p.classifier.ClassifyInput(text)
}

// Answer produces a formatted answer. It never returns an error: generation
// failures yield the apology with meeting and message buttons.
func (p *Pipeline) Answer(ctx context.Context, question string) Reply {
	return p.AnswerWith(ctx, p.docs.Load(ctx), question)
}

// AnswerWith is Answer over a document the caller already loaded.
func (p *Pipeline) AnswerWith(ctx context.Context, doc knowledge.Result, question string) Reply {
	ctx, span := p.tracer.Start(ctx, "pipeline.Answer")
	defer span.End()

	sections := p.ranker.Rank(doc.Text, question, p.maxSections)
	span.SetAttributes(
		attribute.Int("rag.sections", len(sections)),
		attribute.Bool("rag.fallback_document", doc.Fallback),
	)

	outcome := p.generate(ctx, p.builder.Build(sections, question))
	if !outcome.OK() {
		span.SetStatus(codes.Error, outcome.String())
		return p.apology(doc.Fallback)
	}

	text := p.formatter.FormatFor(outcome.Text, question)
	if text == "" {
		p.logger.Warn(module, "Generated answer was empty after formatting", map[string]interface{}{
			"provider": p.generator.Name(),
		})
		return p.apology(doc.Fallback)
	}

	reply := Reply{Text: text, Fallback: doc.Fallback}
	if in, ok := p.classifier.ClassifyAnswer(outcome.Text); ok {
		reply.Actions = in.Actions
		reply.Intent = in.Name
	}

	p.logger.Info(module, "Answer generated", map[string]interface{}{
		"sections": len(sections),
		"length":   len([]rune(text)),
		"intent":   reply.Intent,
		"fallback": doc.Fallback,
	})
	return reply
}

// FollowUp runs generation for a turn already answered by an intent reply.
// The generated text is discarded in favour of the fixed follow-up line and
// no buttons are attached. A failed generation yields an empty Reply with
// Failed set, which callers skip.
func (p *Pipeline) FollowUp(ctx context.Context, question string) Reply {
	ctx, span := p.tracer.Start(ctx, "pipeline.FollowUp")
	defer span.End()

	doc := p.docs.Load(ctx)
	sections := p.ranker.Rank(doc.Text, question, p.maxSections)

	outcome := p.generate(ctx, p.builder.Build(sections, question))
	if !outcome.OK() {
		span.SetStatus(codes.Error, outcome.String())
		return Reply{Failed: true, Fallback: doc.Fallback}
	}
	return Reply{Text: response.FollowUpMessage, Fallback: doc.Fallback}
}

// GeneratorName identifies the configured backend.
func (p *Pipeline) GeneratorName() string {
	return p.generator.Name()
}

// Rank exposes the ranking step for diagnostics.
func (p *Pipeline) Rank(ctx context.Context, question string) ([]ranker.ScoredSection, knowledge.Result) {
	doc := p.docs.Load(ctx)
	return p.ranker.Score(ranker.Split(doc.Text), question), doc
}

func (p *Pipeline) generate(ctx context.Context, promptText string) llm.Outcome {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "llm.Generate", trace.WithAttributes(
		attribute.String("llm.generator", p.generator.Name()),
		attribute.Int("llm.prompt_length", len(promptText)),
	))
	defer span.End()

	start := time.Now()
	outcome := p.generator.Generate(ctx, promptText)
	if !outcome.OK() {
		span.SetStatus(codes.Error, outcome.String())
		if outcome.Err != nil {
			span.RecordError(outcome.Err)
		}
		p.logger.Warn(module, "Generation failed", map[string]interface{}{
			"provider": p.generator.Name(),
			"reason":   string(outcome.Reason),
			"error":    errString(outcome.Err),
			"duration": time.Since(start).String(),
		})
		return outcome
	}

	p.logger.Debug(module, "Generation succeeded", map[string]interface{}{
		"provider": p.generator.Name(),
		"duration": time.Since(start).String(),
	})
	return outcome
}

func (p *Pipeline) apology(fallback bool) Reply {
	return Reply{
		Text:     response.ApologyMessage,
		Actions:  response.FallbackActions(),
		Failed:   true,
		Fallback: fallback,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
