package urltools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalPath(t *testing.T) {
	for _, tt := range []struct {
		url  string
		path string
		ok   bool
	}{
		{"/tmp/a.aac", "/tmp/a.aac", true},
		{"a.mka", "a.mka", true},
		{"file:///tmp/a.ac3", "/tmp/a.ac3", true},
		{"file:a.flac", "a.flac", true},
		{"srt://127.0.0.1:4000", "", false},
		{"rtmp://example.com/live/key", "", false},
		{"HTTPS://example.com/a.mp3", "", false},
	} {
		t.Run(tt.url, func(t *testing.T) {
			path, ok := LocalPath(tt.url)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.path, path)
		})
	}
}
