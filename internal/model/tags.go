package model

import "fmt"

// Field names one of the tag attributes pathtag writes.
//
// Backends translate a Field to their own key: ID3 uses TPE1/TALB, Vorbis
// comments and TagLib use ARTIST/ALBUM, MP4 uses the ©ART/©alb atoms.
type Field string

const (
	// FieldArtist is the lead artist of the track.
	FieldArtist Field = "artist"

	// FieldAlbum is the album title.
	FieldAlbum Field = "album"
)

// Fields lists every writable field in write order.
var Fields = []Field{FieldArtist, FieldAlbum}

// String implements fmt.Stringer.
func (f Field) String() string {
	return string(f)
}

// TagSet is the artist/album pair derived from a directory position.
type TagSet struct {
	// Artist is taken from the first path segment.
	Artist string

	// Album is taken from the second path segment, or "Unknown" when the
	// file sits directly in an artist directory.
	Album string
}

// Value returns the value held for field f.
// Unknown fields yield an empty string.
func (s TagSet) Value(f Field) string {
	switch f {
	case FieldArtist:
		return s.Artist
	case FieldAlbum:
		return s.Album
	default:
		return ""
	}
}

// String renders the set as "Artist - Album".
func (s TagSet) String() string {
	return fmt.Sprintf("%s - %s", s.Artist, s.Album)
}
