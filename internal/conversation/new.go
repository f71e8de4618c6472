package conversation

import (
	"github.com/nguyentantai21042004/jam-coach/internal/gemini"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
)

type implConversation struct {
	model  gemini.Client
	logger logger.Logger
}

// New creates a Conversation backed by model.
func New(model gemini.Client, log logger.Logger) Conversation {
	return &implConversation{
		model:  model,
		logger: log,
	}
}
