package coach

import (
	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/config"
	"github.com/nguyentantai21042004/jam-coach/internal/conversation"
	"github.com/nguyentantai21042004/jam-coach/internal/gemini"
	"github.com/nguyentantai21042004/jam-coach/internal/journal"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
)

type implCoach struct {
	cfg          *config.Config
	client       gemini.Client
	conversation conversation.Conversation
	ingress      audio.Ingress
	transcoder   audio.Transcoder
	journal      journal.Journal
	logger       logger.Logger
}

// New creates a Coach. cfg must already be validated.
func New(
	cfg *config.Config,
	client gemini.Client,
	conv conversation.Conversation,
	ingress audio.Ingress,
	transcoder audio.Transcoder,
	j journal.Journal,
	log logger.Logger,
) Coach {
	return &implCoach{
		cfg:          cfg,
		client:       client,
		conversation: conv,
		ingress:      ingress,
		transcoder:   transcoder,
		journal:      j,
		logger:       log,
	}
}
