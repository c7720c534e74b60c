package audio

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/handiism/pathtag/internal/model"
)

// FLACBackend edits Vorbis comments with github.com/go-flac.
type FLACBackend struct{}

// NewFLACBackend creates a FLACBackend.
func NewFLACBackend() *FLACBackend {
	return &FLACBackend{}
}

// Open implements Backend.
func (b *FLACBackend) Open(path string) (Container, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse FLAC file: %w", err)
	}

	c := &flacContainer{path: path, file: f, index: -1}
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		c.comments, err = flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		c.index = idx
		break
	}
	if c.comments == nil {
		c.comments = flacvorbis.New()
	}
	return c, nil
}

type flacContainer struct {
	path     string
	file     *flac.File
	comments *flacvorbis.MetaDataBlockVorbisComment
	index    int
}

func vorbisKey(field model.Field) string {
	switch field {
	case model.FieldArtist:
		return flacvorbis.FIELD_ARTIST
	case model.FieldAlbum:
		return flacvorbis.FIELD_ALBUM
	default:
		return ""
	}
}

func (c *flacContainer) Set(field model.Field, value string) {
	key := vorbisKey(field)
	if key == "" {
		return
	}
	c.comments.Comments = replaceComment(c.comments.Comments, key, value)
}

// replaceComment drops every KEY=... entry (keys compare case-insensitively,
// as Vorbis requires) and appends KEY=value.
func replaceComment(comments []string, key, value string) []string {
	kept := comments[:0:0]
	for _, cmt := range comments {
		name, _, _ := strings.Cut(cmt, "=")
		if strings.EqualFold(name, key) {
			continue
		}
		kept = append(kept, cmt)
	}
	return append(kept, key+"="+value)
}

func (c *flacContainer) Save() error {
	block := c.comments.Marshal()
	if c.index >= 0 {
		c.file.Meta[c.index] = &block
	} else {
		c.file.Meta = append(c.file.Meta, &block)
		c.index = len(c.file.Meta) - 1
	}
	if err := c.file.Save(c.path); err != nil {
		return fmt.Errorf("save FLAC file: %w", err)
	}
	return nil
}

func (c *flacContainer) Close() error {
	return nil
}
