package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/pathtag/internal/model"
	"github.com/handiism/pathtag/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID3Backend_ReplacesArtistAndAlbum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	testsupport.WriteMP3(t, path, "asdasd", "asdasd")

	c, err := NewID3Backend(BackendOptions{}).Open(path)
	require.NoError(t, err)
	c.Set(model.FieldArtist, "Beatles")
	c.Set(model.FieldAlbum, "Revolver")
	require.NoError(t, c.Save())
	require.NoError(t, c.Close())

	tag := testsupport.ReadID3(t, path)
	assert.Equal(t, "Beatles", tag.Artist())
	assert.Equal(t, "Revolver", tag.Album())
	assert.Equal(t, testsupport.FixtureTitle, tag.Title(), "other frames must survive")
	assert.Len(t, tag.GetFrames(tag.CommonID("Lead artist/Lead performer/Soloist/Performing group")), 1)
}

func TestID3Backend_RejectsUntaggedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o644))

	_, err := NewID3Backend(BackendOptions{}).Open(path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestID3Backend_RejectsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := NewID3Backend(BackendOptions{}).Open(path)

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestID3Backend_MissingFile(t *testing.T) {
	_, err := NewID3Backend(BackendOptions{}).Open(filepath.Join(t.TempDir(), "nope.mp3"))

	require.Error(t, err)
	assert.True(t, os.IsNotExist(err) || errors.Is(err, os.ErrNotExist))
}

func TestID3Backend_CreateMissingTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untagged.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake mpeg frames"), 0o644))

	c, err := NewID3Backend(BackendOptions{CreateMissingTags: true}).Open(path)
	require.NoError(t, err)
	c.Set(model.FieldArtist, "Beatles")
	c.Set(model.FieldAlbum, "Unknown")
	require.NoError(t, c.Save())
	require.NoError(t, c.Close())

	tag := testsupport.ReadID3(t, path)
	assert.Equal(t, "Beatles", tag.Artist())
	assert.Equal(t, "Unknown", tag.Album())
}
