package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"virtual-assistant-be/pkg/events"
	"virtual-assistant-be/pkg/knowledge"
	pktNats "virtual-assistant-be/pkg/nats"
	"virtual-assistant-be/pkg/rag/pipeline"
	"virtual-assistant-be/pkg/rag/ranker"
	"virtual-assistant-be/pkg/rag/response"
	"virtual-assistant-be/pkg/rag/rules"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type fakeAssistant struct {
	answer   pipeline.Reply
	scored   []ranker.ScoredSection
	fallback bool
	asked    []string
}

func (f *fakeAssistant) MatchIntent(text string) (rules.Intent, bool) {
	if strings.Contains(text, "meeting") {
		return rules.Intent{
			Name:    rules.IntentScheduleMeeting,
			LeadIn:  "Happy to meet!",
			Actions: []rules.ActionButton{{Label: "Schedule Meeting", Action: rules.ActionOpenMeeting}},
		}, true
	}
	return rules.Intent{}, false
}

func (f *fakeAssistant) Answer(_ context.Context, question string) pipeline.Reply {
	f.asked = append(f.asked, question)
	return f.answer
}

func (f *fakeAssistant) FollowUp(context.Context, string) pipeline.Reply {
	return pipeline.Reply{Text: response.FollowUpMessage}
}

func (f *fakeAssistant) Rank(context.Context, string) ([]ranker.ScoredSection, knowledge.Result) {
	return f.scored, knowledge.Result{Fallback: f.fallback}
}

type fakeEvents struct {
	subject string
	durable string
	closed  bool
}

func (f *fakeEvents) Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	f.subject, f.durable = subject, durableName
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	return handler(ctx, events.NewActionEvent("s-1", rules.ActionOpenMessage, at))
}

func (f *fakeEvents) Close() { f.closed = true }

func testApp(a *fakeAssistant) *App {
	return &App{
		NewAssistant: func(context.Context) (Assistant, error) { return a, nil },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(t, context.Background(), app, stdin, args...)
}

func executeCmdContext(t *testing.T, ctx context.Context, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func TestAskCmd(t *testing.T) {
	a := &fakeAssistant{answer: pipeline.Reply{
		Text:    response.ApologyMessage,
		Actions: response.FallbackActions(),
		Failed:  true,
	}}

	out, err := executeCmd(t, testApp(a), "", "ask", "what", "do", "you", "do?")
	require.NoError(t, err)

	assert.Equal(t, []string{"what do you do?"}, a.asked)
	assert.Contains(t, out, "assistant> "+response.ApologyMessage)
	assert.Contains(t, out, "[Schedule Meeting] open-meeting-popup")
	assert.Contains(t, out, "[Send Message] open-message-popup")
}

func TestAskCmd_FallbackDocument(t *testing.T) {
	a := &fakeAssistant{answer: pipeline.Reply{Text: "Hi there.", Fallback: true}}

	out, err := executeCmd(t, testApp(a), "", "ask", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "using built-in profile")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := executeCmd(t, testApp(&fakeAssistant{}), "", "ask")
	assert.Error(t, err)

	_, err = executeCmd(t, testApp(&fakeAssistant{}), "", "ask", "  ")
	assert.Error(t, err)
}

func TestAskCmd_AssistantError(t *testing.T) {
	app := &App{NewAssistant: func(context.Context) (Assistant, error) {
		return nil, errors.New("missing api key")
	}}

	_, err := executeCmd(t, app, "", "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing api key")
}

func TestRankCmd(t *testing.T) {
	long := strings.Repeat("x", 80)
	a := &fakeAssistant{scored: []ranker.ScoredSection{
		{Section: ranker.Section{Text: "Introduction:\nI am Gaurav.", IsIntroduction: true}, Score: 0},
		{Section: ranker.Section{Text: "Skills:\nGo, React"}, Score: 7},
		{Section: ranker.Section{Text: long}, Score: 1},
	}}

	out, err := executeCmd(t, testApp(a), "", "rank", "skills")
	require.NoError(t, err)
	assert.Contains(t, out, " 1.    0 * Introduction:")
	assert.Contains(t, out, " 2.    7   Skills:")
	assert.Contains(t, out, strings.Repeat("x", previewRunes-3)+"...")

	out, err = executeCmd(t, testApp(a), "", "rank", "--limit", "1", "skills")
	require.NoError(t, err)
	assert.NotContains(t, out, "Skills:")
}

func TestChatCmd(t *testing.T) {
	a := &fakeAssistant{answer: pipeline.Reply{Text: "I build web apps."}}
	stdin := "What do you do?\n\nCan we set up a meeting?\n/clear\n/quit\nignored\n"

	out, err := executeCmd(t, testApp(a), stdin, "chat", "--no-delay")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, response.WelcomeMessage))
	assert.Contains(t, out, "assistant> I build web apps.")
	assert.Contains(t, out, "assistant> Happy to meet!")
	assert.Contains(t, out, "[Schedule Meeting] open-meeting-popup")
	assert.Equal(t, []string{"What do you do?"}, a.asked)
}

func TestChatCmd_EndOfInput(t *testing.T) {
	out, err := executeCmd(t, testApp(&fakeAssistant{}), "", "chat", "--no-delay")
	require.NoError(t, err)
	assert.Contains(t, out, response.WelcomeMessage)
}

func TestEventsCmd(t *testing.T) {
	src := &fakeEvents{}
	app := testApp(&fakeAssistant{})
	app.NewEvents = func() (EventSource, error) { return src, nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := executeCmdContext(t, ctx, app, "", "events", "--durable", "tail")
	require.NoError(t, err)

	assert.Equal(t, "events.assistant.action.>", src.subject)
	assert.Equal(t, "tail", src.durable)
	assert.True(t, src.closed)
	assert.Contains(t, out, "15:04:05 assistant.action.open-message-popup session=s-1")
}

func TestEventsCmd_Disabled(t *testing.T) {
	_, err := executeCmd(t, testApp(&fakeAssistant{}), "", "events")
	assert.ErrorIs(t, err, errEventsDisabled)
}

func TestServeCmd(t *testing.T) {
	called := false
	app := testApp(&fakeAssistant{})
	app.Serve = func(context.Context) error {
		called = true
		return nil
	}

	_, err := executeCmd(t, app, "", "serve")
	require.NoError(t, err)
	assert.True(t, called)
}
