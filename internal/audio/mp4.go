package audio

import (
	"fmt"

	mp4tag "github.com/Sorrow446/go-mp4tag"
	"github.com/handiism/pathtag/internal/model"
)

// MP4Backend writes iTunes-style atoms with github.com/Sorrow446/go-mp4tag.
type MP4Backend struct{}

// NewMP4Backend creates an MP4Backend.
func NewMP4Backend() *MP4Backend {
	return &MP4Backend{}
}

// Open implements Backend.
func (b *MP4Backend) Open(path string) (Container, error) {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open MP4 file: %w", err)
	}
	return &mp4Container{mp4: mp4, tags: &mp4tag.MP4Tags{}, del: []string{}}, nil
}

type mp4Container struct {
	mp4  *mp4tag.MP4
	tags *mp4tag.MP4Tags

	// go-mp4tag ignores empty struct fields, so clearing goes through
	// its delete list.
	del []string
}

func (c *mp4Container) Set(field model.Field, value string) {
	switch field {
	case model.FieldArtist:
		c.tags.Artist = value
	case model.FieldAlbum:
		c.tags.Album = value
	default:
		return
	}
	if value == "" {
		c.del = append(c.del, string(field))
	}
}

func (c *mp4Container) Save() error {
	// Atoms neither set nor deleted here are kept.
	if err := c.mp4.Write(c.tags, c.del); err != nil {
		return fmt.Errorf("write MP4 tags: %w", err)
	}
	return nil
}

func (c *mp4Container) Close() error {
	return c.mp4.Close()
}
