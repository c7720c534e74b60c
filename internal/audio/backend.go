package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/handiism/pathtag/internal/model"
)

// ErrUnsupportedFormat is returned by Open when a backend cannot handle a file.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Container is an open handle on a file's embedded metadata.
//
// Set replaces any prior value of field. Nothing reaches the disk until Save.
type Container interface {
	Set(field model.Field, value string)
	Save() error
	Close() error
}

// Backend opens tag containers. Each backend wraps one tagging library.
type Backend interface {
	Open(path string) (Container, error)
}

// BackendOptions tune backend behaviour.
type BackendOptions struct {
	// CreateMissingTags lets the id3 backend add a tag to MP3 files that
	// have none. When false, such files fail to open.
	CreateMissingTags bool
}

// Backend names accepted by NewBackend.
const (
	BackendAuto   = "auto"
	BackendID3    = "id3"
	BackendFLAC   = "flac"
	BackendMP4    = "mp4"
	BackendTagLib = "taglib"
)

var backendFactories = map[string]func(BackendOptions) Backend{
	BackendAuto:   func(o BackendOptions) Backend { return NewAutoBackend(o) },
	BackendID3:    func(o BackendOptions) Backend { return NewID3Backend(o) },
	BackendFLAC:   func(BackendOptions) Backend { return NewFLACBackend() },
	BackendMP4:    func(BackendOptions) Backend { return NewMP4Backend() },
	BackendTagLib: func(BackendOptions) Backend { return NewTagLibBackend() },
}

// NewBackend returns the backend registered under name.
func NewBackend(name string, opts BackendOptions) (Backend, error) {
	factory, ok := backendFactories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown tag backend %q (want one of %s)", name, strings.Join(BackendNames(), ", "))
	}
	return factory(opts), nil
}

// BackendNames lists the registered backend names in sorted order.
func BackendNames() []string {
	names := make([]string, 0, len(backendFactories))
	for name := range backendFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File extensions routed by the auto backend.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// AutoBackend picks a backend from the file extension. Files without a
// dedicated backend go to TagLib, which covers Ogg, Opus, WAV, AIFF and more.
type AutoBackend struct {
	id3    Backend
	flac   Backend
	mp4    Backend
	taglib Backend
}

// NewAutoBackend creates an AutoBackend.
func NewAutoBackend(opts BackendOptions) *AutoBackend {
	return &AutoBackend{
		id3:    NewID3Backend(opts),
		flac:   NewFLACBackend(),
		mp4:    NewMP4Backend(),
		taglib: NewTagLibBackend(),
	}
}

// Open implements Backend.
func (b *AutoBackend) Open(path string) (Container, error) {
	return b.pick(path).Open(path)
}

func (b *AutoBackend) pick(path string) Backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		return b.id3
	case ExtFLAC:
		return b.flac
	case ExtM4A, ExtMP4:
		return b.mp4
	default:
		return b.taglib
	}
}
