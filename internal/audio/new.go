package audio

import (
	"strings"

	"github.com/nguyentantai21042004/jam-coach/internal/logger"
	"github.com/nguyentantai21042004/jam-coach/pkg/executor"
)

type implIngress struct {
	tempDir string
	logger  logger.Logger
}

// NewIngress creates an Ingress that writes into tempDir.
func NewIngress(tempDir string, log logger.Logger) Ingress {
	return &implIngress{
		tempDir: tempDir,
		logger:  log,
	}
}

type implTranscoder struct {
	ffmpeg   string
	formats  map[string]bool
	executor executor.Executor
	logger   logger.Logger
}

// NewTranscoder creates a Transcoder that runs ffmpeg for the listed extensions.
func NewTranscoder(ffmpegPath string, formats []string, exec executor.Executor, log logger.Logger) Transcoder {
	set := make(map[string]bool, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !strings.HasPrefix(f, ".") {
			f = "." + f
		}
		set[f] = true
	}
	return &implTranscoder{
		ffmpeg:   ffmpegPath,
		formats:  set,
		executor: exec,
		logger:   log,
	}
}
