package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/pathtag/internal/model"
	"github.com/handiism/pathtag/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/taglib"
	"go.uber.org/zap/zapcore"
)

func TestTagLibBackend_ReplacesArtistAndAlbum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.wav")
	testsupport.WriteWAV(t, path)
	require.NoError(t, taglib.WriteTags(path, map[string][]string{
		taglib.Artist: {"old"},
		taglib.Title:  {"keep me"},
	}, 0))

	tagTwice(t, NewTagLibBackend(), path, model.TagSet{Artist: "Beatles", Album: "Revolver"})

	tags, err := taglib.ReadTags(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beatles"}, tags[taglib.Artist])
	assert.Equal(t, []string{"Revolver"}, tags[taglib.Album])
	assert.Equal(t, []string{"keep me"}, tags[taglib.Title])
}

func TestTagLibBackend_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not audio at all"), 0o644))

	_, err := NewTagLibBackend().Open(path)

	assert.Error(t, err)
}

func TestAutoBackend_CorruptWAVIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not audio at all"), 0o644))
	log, logs := observedLogger()
	tagger := NewTagger(NewAutoBackend(BackendOptions{}), nil, log)

	outcome, err := tagger.Write(path, model.TagSet{Artist: "Beatles", Album: "Revolver"})

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
	infos := logs.FilterLevelExact(zapcore.InfoLevel).All()
	require.Len(t, infos, 1)
	assert.Equal(t, path, infos[0].ContextMap()["path"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not audio at all", string(data))
}
