package layout

import (
	"errors"
	"testing"

	"github.com/handiism/pathtag/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		want model.TagSet
	}{
		{
			name: "artist and album",
			rel:  "Beatles/Revolver",
			want: model.TagSet{Artist: "Beatles", Album: "Revolver"},
		},
		{
			name: "artist only",
			rel:  "Beatles",
			want: model.TagSet{Artist: "Beatles", Album: UnknownAlbum},
		},
		{
			name: "spaces and punctuation kept verbatim",
			rel:  "Simon & Garfunkel/Bookends (Remastered)",
			want: model.TagSet{Artist: "Simon & Garfunkel", Album: "Bookends (Remastered)"},
		},
		{
			name: "unicode names",
			rel:  "Björk/Homogenic",
			want: model.TagSet{Artist: "Björk", Album: "Homogenic"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		rel       string
		wantDepth int
	}{
		{name: "root sentinel", rel: ".", wantDepth: 0},
		{name: "empty path", rel: "", wantDepth: 0},
		{name: "three segments", rel: "Beatles/Are/Great", wantDepth: 3},
		{name: "four segments", rel: "a/b/c/d", wantDepth: 4},
		{name: "empty album segment", rel: "Beatles/", wantDepth: 2},
		{name: "empty artist segment", rel: "/Revolver", wantDepth: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.rel)
			require.Error(t, err)

			var pathErr *PathError
			require.True(t, errors.As(err, &pathErr), "error should be a *PathError, got %T", err)
			assert.Equal(t, tt.rel, pathErr.Path)
			assert.Equal(t, tt.wantDepth, pathErr.Depth)
		})
	}
}

func TestClassify_Properties(t *testing.T) {
	names := []string{"A", "Beatles", "Sigur Rós", "AC-DC", "x.y"}

	for _, artist := range names {
		got, err := Classify(artist)
		require.NoError(t, err)
		assert.Equal(t, model.TagSet{Artist: artist, Album: UnknownAlbum}, got)

		for _, album := range names {
			got, err := Classify(artist + "/" + album)
			require.NoError(t, err)
			assert.Equal(t, model.TagSet{Artist: artist, Album: album}, got)

			_, err = Classify(artist + "/" + album + "/extra")
			assert.Error(t, err)
		}
	}
}

func TestPathError_Message(t *testing.T) {
	assert.Equal(t, `path "." is the base directory`, (&PathError{Path: "."}).Error())
	assert.Equal(t, `path "a/b/c" has depth 3, want 1 to 2`, (&PathError{Path: "a/b/c", Depth: 3}).Error())
}
