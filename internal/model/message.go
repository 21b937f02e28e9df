package model

// Conversation roles accepted by the orchestration layer. Role sequencing is
// not enforced here; callers own transcript ordering.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is a single turn in a transcript. Content is usually a
// plain string but assistant turns replayed from the UI may carry the full
// structured payload they were rendered from.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}
