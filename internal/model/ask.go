package model

// Defaults applied when an AskRequest leaves fields unset.
const (
	DefaultNamespace = "pagelm"
	DefaultTopK      = 6
)

// AskRequest is a study question plus its retrieval scope and carried history.
type AskRequest struct {
	Question  string                `json:"question"`
	Namespace string                `json:"namespace,omitempty"`
	TopK      int                   `json:"top_k,omitempty"`
	History   []ConversationMessage `json:"history,omitempty"`
}

// Flashcard is a single spaced-repetition card. The short JSON keys match the
// wire format the UI consumes.
type Flashcard struct {
	Question string   `json:"q"`
	Answer   string   `json:"a"`
	Tags     []string `json:"tags,omitempty"`
}

// AskPayload is the structured answer returned to callers. Answer is
// GitHub-flavored markdown.
type AskPayload struct {
	Topic      string      `json:"topic"`
	Answer     string      `json:"answer"`
	Flashcards []Flashcard `json:"flashcards"`
}
