package gemini

import (
	"context"
	"errors"
)

var (
	ErrMissingAPIKey = errors.New("no Gemini API key configured")
	ErrEmptyResponse = errors.New("empty response from Gemini")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of a chat history sent to the model.
type Message struct {
	Role Role
	Text string
}

// Client is the narrow "given input, return text" capability the coach needs
// from the remote model.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromAudio(ctx context.Context, audioPath, mimeType, instruction string) (string, error)
	Chat(ctx context.Context, history []Message) (string, error)
}
