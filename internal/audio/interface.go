package audio

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAudio        = errors.New("empty audio payload")
)

// Source tells whether an artifact came from the in-page recorder or a file upload.
type Source string

const (
	SourceRecorded Source = "recorded"
	SourceUploaded Source = "uploaded"
)

// Artifact is a captured clip written to a temporary file.
type Artifact struct {
	Path     string
	MIMEType string
	Size     int64
	Source   Source
}

// Ingress writes captured or uploaded audio to disk.
type Ingress interface {
	SaveRecording(ctx context.Context, data []byte, contentType string) (Artifact, error)
	SaveUpload(ctx context.Context, data []byte, filename string, allowed []string) (Artifact, error)
	Remove(ctx context.Context, a Artifact)
}

// Transcoder converts clips the remote model cannot read into WAV.
type Transcoder interface {
	NeedsTranscode(a Artifact) bool
	Transcode(ctx context.Context, a Artifact) (Artifact, error)
}
