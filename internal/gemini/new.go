package gemini

import (
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/jam-coach/internal/logger"
)

// Options selects models and, for tests, an alternate endpoint.
type Options struct {
	Model     string
	ChatModel string
	BaseURL   string
}

type implClient struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	clients    map[int]*genai.Client

	opts   Options
	logger logger.Logger
}

// New creates a Client that rotates through the supplied Gemini API keys.
func New(apiKeys []string, opts Options, log logger.Logger) Client {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.ChatModel == "" {
		opts.ChatModel = opts.Model
	}
	return &implClient{
		apiKeys: apiKeys,
		clients: make(map[int]*genai.Client),
		opts:    opts,
		logger:  log,
	}
}
