// Package rules holds the declarative topic and intent grammar used by the
// ranker and the intent classifier. Adding a topic or intent is a YAML edit.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Hook names an action button can trigger.
const (
	ActionOpenMeeting   = "open-meeting-popup"
	ActionOpenSubscribe = "open-subscribe-popup"
	ActionOpenMessage   = "open-message-popup"
)

// Intent names shipped with the default rules.
const (
	IntentScheduleMeeting = "schedule-meeting"
	IntentSubscribe       = "subscribe"
	IntentSendMessage     = "send-message"
)

var knownActions = map[string]bool{
	ActionOpenMeeting:   true,
	ActionOpenSubscribe: true,
	ActionOpenMessage:   true,
}

// ActionButton is a suggested action attached to an assistant message.
type ActionButton struct {
	Label  string `json:"label" yaml:"label"`
	Action string `json:"action" yaml:"action"`
}

type Topic struct {
	Name    string
	Pattern *regexp.Regexp
}

type Intent struct {
	Name           string
	Priority       int
	LeadIn         string
	InputPatterns  []*regexp.Regexp
	AnswerPatterns []*regexp.Regexp
	Actions        []ActionButton
}

type Rules struct {
	Topics  []Topic
	Intents []Intent // sorted by priority
}

type topicSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type intentSpec struct {
	Name           string         `yaml:"name"`
	Priority       int            `yaml:"priority"`
	LeadIn         string         `yaml:"lead_in"`
	InputPatterns  []string       `yaml:"input_patterns"`
	AnswerPatterns []string       `yaml:"answer_patterns"`
	Actions        []ActionButton `yaml:"actions"`
}

type fileSpec struct {
	Topics  []topicSpec  `yaml:"topics"`
	Intents []intentSpec `yaml:"intents"`
}

// Default returns the embedded rule set.
func Default() *Rules {
	r, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return r
}

// Load reads rules from path; an empty path yields the embedded defaults.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return Parse(data)
}

// Parse compiles a YAML rule document. Patterns are matched case-insensitively.
func Parse(data []byte) (*Rules, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	out := &Rules{}
	for _, t := range spec.Topics {
		if t.Name == "" {
			return nil, fmt.Errorf("topic without name")
		}
		re, err := compile(t.Pattern)
		if err != nil {
			return nil, fmt.Errorf("topic %s: %w", t.Name, err)
		}
		out.Topics = append(out.Topics, Topic{Name: t.Name, Pattern: re})
	}

	for _, in := range spec.Intents {
		if in.Name == "" {
			return nil, fmt.Errorf("intent without name")
		}
		intent := Intent{
			Name:     in.Name,
			Priority: in.Priority,
			LeadIn:   in.LeadIn,
			Actions:  in.Actions,
		}
		for _, a := range in.Actions {
			if !knownActions[a.Action] {
				return nil, fmt.Errorf("intent %s: unknown action %q", in.Name, a.Action)
			}
		}
		var err error
		if intent.InputPatterns, err = compileAll(in.InputPatterns); err != nil {
			return nil, fmt.Errorf("intent %s input: %w", in.Name, err)
		}
		if intent.AnswerPatterns, err = compileAll(in.AnswerPatterns); err != nil {
			return nil, fmt.Errorf("intent %s answer: %w", in.Name, err)
		}
		out.Intents = append(out.Intents, intent)
	}

	sort.SliceStable(out.Intents, func(i, j int) bool {
		return out.Intents[i].Priority < out.Intents[j].Priority
	})

	return out, nil
}

// Intent looks an intent up by name.
func (r *Rules) Intent(name string) (Intent, bool) {
	for _, in := range r.Intents {
		if in.Name == name {
			return in, true
		}
	}
	return Intent{}, false
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile("(?i)" + pattern)
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}
