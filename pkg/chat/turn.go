package chat

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleSystem is for system instructions.
	RoleSystem Role = "system"

	// RoleUser is for user messages.
	RoleUser Role = "user"

	// RoleAssistant is for assistant responses.
	RoleAssistant Role = "assistant"
)

// Turn is one message exchanged with the generation backend.
// Turns are immutable once created: they are appended to a History and
// replayed verbatim, never edited or removed.
type Turn struct {
	// Role identifies the turn's author.
	Role Role

	// Content is the text of the turn.
	Content string
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// NewAssistantTurn creates an assistant turn.
func NewAssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Tool declares an auxiliary capability the generation backend may call,
// such as a retrieval/knowledge lookup. Declarations are forwarded to
// providers that support them; the pipeline itself never executes tools.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "search_knowledge").
	Name string `json:"name"`

	// Description explains what the tool does, helping the model decide
	// when to use it.
	Description string `json:"description"`

	// Parameters defines the JSON schema for the tool's arguments.
	Parameters map[string]any `json:"parameters"`
}
