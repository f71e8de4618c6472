package audio

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var mimeTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".mpeg": "audio/mpeg",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/aac",
	".aac":  "audio/aac",
}

// MIMEType returns the audio content type for a file extension, defaulting to audio/wav.
func MIMEType(ext string) string {
	if t, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return "audio/wav"
}

// recordingExt picks a file suffix from the recorder's content type.
func recordingExt(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".wav"
	}
	switch mediaType {
	case "audio/webm", "video/webm":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/x-m4a":
		return ".m4a"
	case "audio/aac":
		return ".aac"
	default:
		return ".wav"
	}
}

// SaveRecording writes recorder output verbatim to a new temp file
func (i *implIngress) SaveRecording(ctx context.Context, data []byte, contentType string) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, ErrEmptyAudio
	}
	return i.write(ctx, data, recordingExt(contentType), SourceRecorded)
}

// SaveUpload checks filename against the allow-list and writes the bytes verbatim
func (i *implIngress) SaveUpload(ctx context.Context, data []byte, filename string, allowed []string) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, ErrEmptyAudio
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !Allowed(ext, allowed) {
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	return i.write(ctx, data, ext, SourceUploaded)
}

// Allowed reports whether ext (with or without dot) is in the allow-list.
func Allowed(ext string, allowed []string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.TrimPrefix(strings.ToLower(a), ".") == ext {
			return true
		}
	}
	return false
}

func (i *implIngress) write(ctx context.Context, data []byte, ext string, source Source) (Artifact, error) {
	if err := os.MkdirAll(i.tempDir, 0755); err != nil {
		return Artifact{}, fmt.Errorf("create temp dir: %w", err)
	}

	f, err := os.CreateTemp(i.tempDir, "jam-*"+ext)
	if err != nil {
		return Artifact{}, fmt.Errorf("create temp file: %w", err)
	}

	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return Artifact{}, fmt.Errorf("write audio: %w", err)
	}

	i.logger.Debug(ctx, "Saved %s audio (%d bytes): %s", source, n, f.Name())
	return Artifact{
		Path:     f.Name(),
		MIMEType: MIMEType(ext),
		Size:     int64(n),
		Source:   source,
	}, nil
}

// Remove deletes the artifact file, logs warning if fails
func (i *implIngress) Remove(ctx context.Context, a Artifact) {
	if a.Path == "" {
		return
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		i.logger.Warn(ctx, "Failed to cleanup audio file %s: %v", a.Path, err)
	} else {
		i.logger.Debug(ctx, "Cleaned up audio file: %s", a.Path)
	}
}
