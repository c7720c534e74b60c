// Package testsupport builds small audio fixtures for tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// FixtureTitle is the title written into every tagged fixture. Tests use it
// to check that fields other than artist and album survive a write.
const FixtureTitle = "Taxman"

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
}

// WriteMP3 creates path with an ID3v2 tag carrying artist, album and
// FixtureTitle, followed by a few bytes standing in for MPEG frames.
func WriteMP3(t testing.TB, path, artist, album string) {
	t.Helper()
	mkdirFor(t, path)
	if err := os.WriteFile(path, []byte("fake mpeg frames"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open id3 %s: %v", path, err)
	}
	defer tag.Close()
	tag.SetArtist(artist)
	tag.SetAlbum(album)
	tag.SetTitle(FixtureTitle)
	if err := tag.Save(); err != nil {
		t.Fatalf("save id3 %s: %v", path, err)
	}
}

// ReadID3 parses the tag of path. The tag is closed when the test ends.
func ReadID3(t testing.TB, path string) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open id3 %s: %v", path, err)
	}
	t.Cleanup(func() { tag.Close() })
	return tag
}

// WriteFLAC creates a minimal FLAC stream: STREAMINFO, then a Vorbis comment
// block holding comments when any are given.
func WriteFLAC(t testing.TB, path string, comments ...string) {
	t.Helper()
	mkdirFor(t, path)

	streamInfo := make([]byte, 34)
	binary.BigEndian.PutUint16(streamInfo[0:], 4096) // min block size
	binary.BigEndian.PutUint16(streamInfo[2:], 4096) // max block size
	// 20 bits sample rate, 3 bits channels-1, 5 bits bits-per-sample-1,
	// 36 bits total samples.
	binary.BigEndian.PutUint64(streamInfo[10:], uint64(44100)<<44|uint64(1)<<41|uint64(15)<<36)

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	writeFLACBlock(&buf, flac.StreamInfo, streamInfo, len(comments) == 0)
	if len(comments) > 0 {
		block := flacvorbis.New()
		block.Comments = comments
		vorbis := block.Marshal()
		writeFLACBlock(&buf, flac.VorbisComment, vorbis.Data, true)
	}
	buf.WriteString("fake flac frames")

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeFLACBlock(buf *bytes.Buffer, typ flac.BlockType, data []byte, last bool) {
	header := byte(typ)
	if last {
		header |= 0x80
	}
	buf.WriteByte(header)
	buf.Write([]byte{byte(len(data) >> 16), byte(len(data) >> 8), byte(len(data))})
	buf.Write(data)
}

// ReadVorbisComments returns the Vorbis comments of the FLAC file at path,
// or nil when it has no comment block.
func ReadVorbisComments(t testing.TB, path string) []string {
	t.Helper()
	f, err := flac.ParseFile(path)
	if err != nil {
		t.Fatalf("parse flac %s: %v", path, err)
	}
	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			t.Fatalf("parse vorbis comment %s: %v", path, err)
		}
		return cmts.Comments
	}
	return nil
}

// WriteWAV creates a short silent 16-bit mono PCM WAV file.
func WriteWAV(t testing.TB, path string) {
	t.Helper()
	mkdirFor(t, path)

	const (
		sampleRate    = 8000
		channels      = 1
		bitsPerSample = 16
		dataSize      = sampleRate / 10 * channels * bitsPerSample / 8
	)

	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, uint32(4+8+16+8+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, le, uint32(16))
	_ = binary.Write(&buf, le, uint16(1)) // PCM
	_ = binary.Write(&buf, le, uint16(channels))
	_ = binary.Write(&buf, le, uint32(sampleRate))
	_ = binary.Write(&buf, le, uint32(sampleRate*channels*bitsPerSample/8))
	_ = binary.Write(&buf, le, uint16(channels*bitsPerSample/8))
	_ = binary.Write(&buf, le, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, le, uint32(dataSize))
	buf.Write(make([]byte, dataSize))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// OriginalTag is the artist and album WriteOriginalMP3 stores, standing in
// for whatever metadata a file had before tagging.
const OriginalTag = "asdasd"

// WriteOriginalMP3 creates base/rel (slash separated) tagged with
// OriginalTag and returns its path.
func WriteOriginalMP3(t testing.TB, base, rel string) string {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	WriteMP3(t, path, OriginalTag, OriginalTag)
	return path
}

// ReadArtistAlbum returns the ID3 artist and album of path.
func ReadArtistAlbum(t testing.TB, path string) (artist, album string) {
	t.Helper()
	tag := ReadID3(t, path)
	return tag.Artist(), tag.Album()
}
