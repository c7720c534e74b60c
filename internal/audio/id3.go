package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bogem/id3v2"
	"github.com/handiism/pathtag/internal/model"
)

// id3Magic opens every ID3v2 tag.
var id3Magic = []byte("ID3")

// ID3Backend writes ID3v2 frames with github.com/bogem/id3v2.
//
// Artist maps to TPE1 and album to TALB. Each Set assigns a single frame,
// replacing whatever the frame held before.
type ID3Backend struct {
	createMissing bool
}

// NewID3Backend creates an ID3Backend.
func NewID3Backend(opts BackendOptions) *ID3Backend {
	return &ID3Backend{createMissing: opts.CreateMissingTags}
}

// Open implements Backend.
func (b *ID3Backend) Open(path string) (Container, error) {
	if !b.createMissing {
		ok, err := hasID3Header(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s has no ID3v2 header", ErrUnsupportedFormat, path)
		}
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	return &id3Container{tag: tag}, nil
}

func hasID3Header(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(id3Magic))
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, id3Magic), nil
}

type id3Container struct {
	tag *id3v2.Tag
}

func (c *id3Container) Set(field model.Field, value string) {
	switch field {
	case model.FieldArtist:
		c.tag.SetArtist(value)
	case model.FieldAlbum:
		c.tag.SetAlbum(value)
	}
}

func (c *id3Container) Save() error {
	return c.tag.Save()
}

func (c *id3Container) Close() error {
	return c.tag.Close()
}
