package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (t *implTranscoder) NeedsTranscode(a Artifact) bool {
	return t.formats[strings.ToLower(filepath.Ext(a.Path))]
}

// Transcode converts the clip to 16kHz mono WAV next to the original and
// removes the original. Artifacts that need no conversion are returned as is.
func (t *implTranscoder) Transcode(ctx context.Context, a Artifact) (Artifact, error) {
	if !t.NeedsTranscode(a) {
		return a, nil
	}

	outPath := strings.TrimSuffix(a.Path, filepath.Ext(a.Path)) + ".wav"

	t.logger.Info(ctx, "Transcoding %s to WAV: %s", a.MIMEType, a.Path)

	// -vn: drop any video track, -ar/-ac: 16kHz mono, -c:a: PCM 16-bit LE
	args := []string{
		"-i", a.Path,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}

	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		return Artifact{}, fmt.Errorf("ffmpeg transcode: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return Artifact{}, fmt.Errorf("stat transcoded audio: %w", err)
	}

	if err := os.Remove(a.Path); err != nil {
		t.logger.Warn(ctx, "Failed to remove original recording %s: %v", a.Path, err)
	}

	return Artifact{
		Path:     outPath,
		MIMEType: "audio/wav",
		Size:     info.Size(),
		Source:   a.Source,
	}, nil
}
