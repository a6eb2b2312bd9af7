// Package chat provides conversation state and response generation.
//
// A Generator turns an ordered conversation history into one raw reply
// string. Two interchangeable strategies are bundled: OpenAI calls a hosted
// chat-completion API with the full turn history, and Relay delegates to a
// locally reachable inference service with just the latest prompt. Both
// satisfy the same contract, so deployments pick one at startup without
// changing callers.
//
// Example usage:
//
//	gen, _ := chat.NewOpenAI(
//	    chat.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer gen.Close()
//
//	history := chat.NewHistory(0)
//	turns := history.AppendAndSnapshot(chat.NewUserTurn("hello"))
//	raw, _ := gen.Generate(ctx, turns)
package chat

import "context"

// Generator produces a raw reply from an ordered conversation history.
// All implementations must satisfy this interface for seamless strategy
// switching.
type Generator interface {
	// Generate returns the raw reply text for the conversation so far.
	// The last turn is the prompt being answered; earlier turns are
	// context, oldest first.
	Generate(ctx context.Context, turns []Turn) (string, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}
