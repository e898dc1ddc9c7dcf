package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewActionEvent(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("NPT", 20700))

	e := NewActionEvent("s-1", "open-meeting-popup", at)

	assert.Equal(t, "assistant.action.open-meeting-popup", e.EventType())
	assert.Equal(t, at, e.Timestamp())
	assert.Equal(t, map[string]interface{}{
		"session_id":  "s-1",
		"action":      "open-meeting-popup",
		"occurred_at": "2026-05-01T04:15:00Z",
	}, e.Payload())
}
