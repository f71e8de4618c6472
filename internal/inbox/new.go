package inbox

import (
	"github.com/nguyentantai21042004/jam-coach/internal/audio"
	"github.com/nguyentantai21042004/jam-coach/internal/config"
	"github.com/nguyentantai21042004/jam-coach/internal/gemini"
	"github.com/nguyentantai21042004/jam-coach/internal/journal"
	"github.com/nguyentantai21042004/jam-coach/internal/logger"
)

type implProcessor struct {
	cfg        config.InboxConfig
	variant    config.Variant
	client     gemini.Client
	ingress    audio.Ingress
	transcoder audio.Transcoder
	journal    journal.Journal
	logger     logger.Logger
}

// New creates a new Processor using variant's prompts.
func New(
	cfg config.InboxConfig,
	variant config.Variant,
	client gemini.Client,
	ingress audio.Ingress,
	transcoder audio.Transcoder,
	j journal.Journal,
	log logger.Logger,
) Processor {
	return &implProcessor{
		cfg:        cfg,
		variant:    variant,
		client:     client,
		ingress:    ingress,
		transcoder: transcoder,
		journal:    j,
		logger:     log,
	}
}
