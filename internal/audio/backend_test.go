package audio

import (
	"testing"

	"github.com/handiism/pathtag/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name string
		want Backend
	}{
		{BackendAuto, &AutoBackend{}},
		{BackendID3, &ID3Backend{}},
		{"ID3", &ID3Backend{}},
		{BackendFLAC, &FLACBackend{}},
		{BackendMP4, &MP4Backend{}},
		{BackendTagLib, &TagLibBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBackend(tt.name, BackendOptions{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := NewBackend("mutagen", BackendOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto, flac, id3, mp4, taglib")
}

func TestNewBackend_PassesOptions(t *testing.T) {
	b, err := NewBackend(BackendID3, BackendOptions{CreateMissingTags: true})
	require.NoError(t, err)

	assert.True(t, b.(*ID3Backend).createMissing)
}

func TestAutoBackend_Pick(t *testing.T) {
	auto := NewAutoBackend(BackendOptions{})

	tests := []struct {
		path string
		want Backend
	}{
		{"a/b/track.mp3", auto.id3},
		{"a/b/TRACK.MP3", auto.id3},
		{"a/b/track.flac", auto.flac},
		{"a/b/track.m4a", auto.mp4},
		{"a/b/video.mp4", auto.mp4},
		{"a/b/track.ogg", auto.taglib},
		{"a/b/track.opus", auto.taglib},
		{"a/b/noext", auto.taglib},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Same(t, tt.want, auto.pick(tt.path))
		})
	}
}

func TestBackendNames(t *testing.T) {
	assert.Equal(t, []string{"auto", "flac", "id3", "mp4", "taglib"}, BackendNames())
}

// tagTwice writes tags to path through backend two times, so callers can
// check that a second pass changes nothing.
func tagTwice(t *testing.T, backend Backend, path string, tags model.TagSet) {
	t.Helper()
	tagger := NewTagger(backend, nil, nil)
	for range 2 {
		outcome, err := tagger.Write(path, tags)
		require.NoError(t, err)
		require.Equal(t, OutcomeWritten, outcome)
	}
}
