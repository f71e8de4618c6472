package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/jam-coach/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	w, err := New(t.TempDir(), nil, logger.NewNop(), Options{Extensions: []string{"wav", ".MP3"}})
	require.NoError(t, err)
	defer w.Stop()

	impl := w.(*implWatcher)
	tests := []struct {
		path string
		want bool
	}{
		{"/in/talk.wav", true},
		{"/in/talk.mp3", true},
		{"/in/TALK.WAV", true},
		{"/in/talk.mp4", false},
		{"/in/.talk.wav", false},
		{"/in/talk", false},
	}
	for _, tt := range tests {
		if got := impl.isAudioFile(tt.path); got != tt.want {
			t.Errorf("isAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	assert.Equal(t, []string{".mp3", ".wav"}, impl.supported())
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, logger.NewNop(), Options{})
	assert.Error(t, err)
}

func TestStartDispatchesNewFiles(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var handled []string
	done := make(chan struct{}, 4)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		handled = append(handled, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(dir, handler, logger.NewNop(), Options{
		Extensions: []string{"wav"},
		Settle:     10 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	// give the watcher a moment to enter its loop
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "talk.wav"), []byte("x"), 0644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"talk.wav"}, handled)
}
