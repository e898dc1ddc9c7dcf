package response

import "virtual-assistant-be/pkg/rag/rules"

// Fixed conversational messages. None of them goes through the formatter.
const (
	// WelcomeMessage seeds every new or cleared conversation.
	WelcomeMessage = "Hi there! Ask me anything about my skills, projects or experience, or let me know if you'd like to schedule a meeting."

	// ApologyMessage replaces an answer whenever generation fails.
	ApologyMessage = "I apologize, but I'm having trouble answering that right now. Feel free to schedule a meeting or send me a message and I'll get back to you personally."

	// FollowUpMessage is the supplementary line sent after an intent reply.
	FollowUpMessage = "In the meantime, is there anything else you'd like to know about my work?"
)

// FallbackActions accompany ApologyMessage.
func FallbackActions() []rules.ActionButton {
	return []rules.ActionButton{
		{Label: "Schedule Meeting", Action: rules.ActionOpenMeeting},
		{Label: "Send Message", Action: rules.ActionOpenMessage},
	}
}
