package session

import (
	"fmt"

	"virtual-assistant-be/pkg/rag/rules"
)

// Hooks are the widget's collaborator callbacks. The session never knows
// what they do; a nil hook is a no-op.
type Hooks struct {
	OpenMeetingPopup   func()
	OpenSubscribePopup func()
	OpenMessagePopup   func()
}

// Trigger calls the hook bound to action.
func (h Hooks) Trigger(action string) error {
	var hook func()
	switch action {
	case rules.ActionOpenMeeting:
		hook = h.OpenMeetingPopup
	case rules.ActionOpenSubscribe:
		hook = h.OpenSubscribePopup
	case rules.ActionOpenMessage:
		hook = h.OpenMessagePopup
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	if hook != nil {
		hook()
	}
	return nil
}
