package audio

import (
	"fmt"
	"path/filepath"

	"github.com/handiism/pathtag/internal/model"
	"go.senan.xyz/taglib"
)

// TagLibBackend writes tags through go.senan.xyz/taglib.
//
// Unlike the other backends, TagLib takes a loosely typed field map in a
// single call, so Set only records values and Save flushes them together.
type TagLibBackend struct{}

// NewTagLibBackend creates a TagLibBackend.
func NewTagLibBackend() *TagLibBackend {
	return &TagLibBackend{}
}

// Open implements Backend. The file is read once to prove TagLib
// recognises it.
//
// TagLib returns empty tags rather than an error for some corrupt files, so
// a file with no audio properties is rejected too.
func (b *TagLibBackend) Open(path string) (Container, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if _, err := taglib.ReadTags(abs); err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	props, err := taglib.ReadProperties(abs)
	if err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	if props.SampleRate == 0 && props.Channels == 0 {
		return nil, fmt.Errorf("%w: %s has no audio stream", ErrUnsupportedFormat, path)
	}
	return &taglibContainer{path: abs, pending: make(map[string][]string)}, nil
}

type taglibContainer struct {
	path    string
	pending map[string][]string
}

func taglibKey(field model.Field) string {
	switch field {
	case model.FieldArtist:
		return taglib.Artist
	case model.FieldAlbum:
		return taglib.Album
	default:
		return ""
	}
}

func (c *taglibContainer) Set(field model.Field, value string) {
	if key := taglibKey(field); key != "" {
		c.pending[key] = []string{value}
	}
}

func (c *taglibContainer) Save() error {
	if len(c.pending) == 0 {
		return nil
	}
	// No options: keys missing from pending keep their current values.
	if err := taglib.WriteTags(c.path, c.pending, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}

func (c *taglibContainer) Close() error {
	return nil
}
