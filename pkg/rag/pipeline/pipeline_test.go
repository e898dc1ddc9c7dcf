package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"virtual-assistant-be/internal/pkg/logger"
	"virtual-assistant-be/pkg/knowledge"
	"virtual-assistant-be/pkg/llm"
	"virtual-assistant-be/pkg/rag/intent"
	"virtual-assistant-be/pkg/rag/prompt"
	"virtual-assistant-be/pkg/rag/ranker"
	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeGenerator struct {
	respond func(ctx context.Context, prompt string) llm.Outcome
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, _ ...llm.Option) llm.Outcome {
	f.prompts = append(f.prompts, prompt)
	return f.respond(ctx, prompt)
}

func (f *fakeGenerator) Name() string { return "fake" }

func reply(text string) *fakeGenerator {
	return &fakeGenerator{respond: func(context.Context, string) llm.Outcome { return llm.Success(text) }}
}

func newPipeline(t *testing.T, docs DocumentSource, gen llm.Generator, opts Options) *Pipeline {
	t.Helper()
	r := rules.Default()
	return New(
		docs,
		ranker.New(r.Topics),
		prompt.NewBuilder("Gaurav Kr Sah"),
		gen,
		intent.NewClassifier(r.Intents),
		response.NewFormatter(response.DefaultMaxLength),
		logger.NewNopLogger(),
		opts,
	)
}

func storeFor(t *testing.T, document string) *knowledge.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))
	return knowledge.NewStore(path, logger.NewNopLogger())
}

func TestAnswerWithUnreachableDocument(t *testing.T) {
	docs := knowledge.NewStore(filepath.Join(t.TempDir(), "missing.txt"), logger.NewNopLogger())
	gen := reply("I'm a full-stack developer who loves building web apps.")
	p := newPipeline(t, docs, gen, Options{})

	got := p.Answer(context.Background(), "Who are you?")

	assert.NotEmpty(t, got.Text)
	assert.False(t, got.Failed)
	assert.True(t, got.Fallback)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Gaurav Kr Sah")
	assert.Contains(t, gen.prompts[0], "Introduction:")
}

func TestAnswerWithUsesGivenDocument(t *testing.T) {
	docs := storeFor(t, "Introduction:\nStored document.\n")
	gen := reply("Hello.")
	p := newPipeline(t, docs, gen, Options{})

	got := p.AnswerWith(context.Background(), knowledge.Result{Text: "Skills:\nGiven document.\n"}, "What are your skills?")

	assert.Equal(t, "Hello.", got.Text)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Given document.")
	assert.NotContains(t, gen.prompts[0], "Stored document.")
}

var projectBullet = regexp.MustCompile(`(?m)^- ([^:\n]+): (.+)$`)

func TestAnswerTopProjectsAsNumberedList(t *testing.T) {
	document := "Introduction:\nHi, I'm Gaurav.\n\n---\n\n" +
		"Skills:\nGo, React and PostgreSQL.\n\n---\n\n" +
		"Projects:\n" +
		"- Portfolio Website: a personal site with a blog\n" +
		"- Task Manager: a collaborative to-do app\n" +
		"- Dev Toolkit: utilities for everyday work\n"

	gen := &fakeGenerator{respond: func(_ context.Context, prompt string) llm.Outcome {
		var sb strings.Builder
		sb.WriteString("Sure! Here are my *favourite* projects:\n")
		for i, m := range projectBullet.FindAllStringSubmatch(prompt, -1) {
			sb.WriteString(strconv.Itoa(i+1) + ". *" + m[1] + "* — " + m[2] + "\n")
		}
		return llm.Success(sb.String())
	}}
	p := newPipeline(t, storeFor(t, document), gen, Options{})

	got := p.Answer(context.Background(), "What are your top 3 projects?")

	require.False(t, got.Failed)
	assert.Contains(t, got.Text, "1. **Portfolio Website**: a personal site with a blog")
	assert.Contains(t, got.Text, "2. **Task Manager**: a collaborative to-do app")
	assert.Contains(t, got.Text, "3. **Dev Toolkit**: utilities for everyday work")
	assert.NotContains(t, got.Text, "4.")
	assert.NotContains(t, strings.ReplaceAll(got.Text, "**", ""), "*")

	var items []response.Block
	for _, b := range response.Render(got.Text) {
		if b.Kind == response.BlockListItem {
			items = append(items, b)
		}
	}
	require.Len(t, items, 3)
	assert.Equal(t, "Portfolio Website: a personal site with a blog", items[0].Text)
}

func TestAnswerEmptyCandidatesApologizes(t *testing.T) {
	gen := &fakeGenerator{respond: func(context.Context, string) llm.Outcome {
		return llm.Failure(llm.EmptyCandidates, nil)
	}}
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), gen, Options{})

	got := p.Answer(context.Background(), "Tell me about your skills")

	assert.True(t, got.Failed)
	assert.Equal(t, response.ApologyMessage, got.Text)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, "Schedule Meeting", got.Actions[0].Label)
	assert.Equal(t, "Send Message", got.Actions[1].Label)
}

func TestAnswerTimeoutIsTransportError(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := &fakeGenerator{respond: func(ctx context.Context, _ string) llm.Outcome {
		<-ctx.Done()
		return llm.ClassifyError(ctx, errors.New("request aborted"))
	}}
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), gen, Options{Timeout: 20 * time.Millisecond})

	got := p.Answer(context.Background(), "Tell me about your skills")

	assert.True(t, got.Failed)
	assert.Equal(t, response.ApologyMessage, got.Text)
}

func TestAnswerWhitespaceOnlyApologizes(t *testing.T) {
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), reply(" \n\n "), Options{})

	got := p.Answer(context.Background(), "Hello")

	assert.True(t, got.Failed)
	assert.Equal(t, response.ApologyMessage, got.Text)
}

func TestAnswerAttachesAnswerIntent(t *testing.T) {
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), reply("Happy to discuss it in a meeting whenever suits you."), Options{})

	got := p.Answer(context.Background(), "Could you help with my startup?")

	assert.False(t, got.Failed)
	assert.Equal(t, rules.IntentScheduleMeeting, got.Intent)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, rules.ActionOpenMeeting, got.Actions[0].Action)
}

func TestAnswerRespectsMaxSections(t *testing.T) {
	gen := reply("ok")
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), gen, Options{MaxSections: 2})

	p.Answer(context.Background(), "What projects have you built?")

	require.Len(t, gen.prompts, 1)
	assert.Equal(t, 1, strings.Count(gen.prompts[0], prompt.SectionSeparator))
}

func TestFollowUp(t *testing.T) {
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), reply("anything"), Options{})

	got := p.FollowUp(context.Background(), "Can we schedule a call?")
	assert.Equal(t, response.FollowUpMessage, got.Text)
	assert.Empty(t, got.Actions)
	assert.False(t, got.Failed)

	failing := &fakeGenerator{respond: func(context.Context, string) llm.Outcome {
		return llm.Failure(llm.TransportError, errors.New("quota"))
	}}
	p = newPipeline(t, storeFor(t, knowledge.FallbackDocument), failing, Options{})

	got = p.FollowUp(context.Background(), "Can we schedule a call?")
	assert.True(t, got.Failed)
	assert.Empty(t, got.Text)
}

func TestMatchIntent(t *testing.T) {
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), reply("x"), Options{})

	in, ok := p.MatchIntent("Can we schedule a call next week?")

	assert.True(t, ok)
	assert.Equal(t, rules.IntentScheduleMeeting, in.Name)
}

func TestRank(t *testing.T) {
	p := newPipeline(t, storeFor(t, knowledge.FallbackDocument), reply("x"), Options{})

	scored, doc := p.Rank(context.Background(), "what skills do you have")

	assert.False(t, doc.Fallback)
	require.Len(t, scored, 5)
	best := scored[0]
	for _, s := range scored[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	assert.True(t, strings.HasPrefix(best.Section.Text, "Skills:"))
}
