package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/pathtag/internal/model"
)

// UnknownAlbum is the album written for files sitting directly in an
// artist directory.
const UnknownAlbum = "Unknown"

// MaxDepth is the deepest directory level that still encodes tags.
const MaxDepth = 2

// PathError reports a relative path that does not encode an artist/album
// relationship.
type PathError struct {
	// Path is the relative path as given to Classify.
	Path string

	// Depth is the number of segments found in Path. Zero for the base
	// directory.
	Depth int
}

func (e *PathError) Error() string {
	if e.Depth == 0 {
		return fmt.Sprintf("path %q is the base directory", e.Path)
	}
	return fmt.Sprintf("path %q has depth %d, want 1 to %d", e.Path, e.Depth, MaxDepth)
}

// Classify derives a TagSet from a directory path relative to the base.
//
// Both "/" and the OS separator are accepted. "." and "" denote the base
// directory and are rejected, as are paths deeper than MaxDepth and paths
// with an empty segment.
func Classify(rel string) (model.TagSet, error) {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return model.TagSet{}, &PathError{Path: rel}
	}

	segments := strings.Split(rel, "/")
	if len(segments) > MaxDepth {
		return model.TagSet{}, &PathError{Path: rel, Depth: len(segments)}
	}
	for _, seg := range segments {
		if seg == "" {
			return model.TagSet{}, &PathError{Path: rel, Depth: len(segments)}
		}
	}

	tags := model.TagSet{Artist: segments[0], Album: UnknownAlbum}
	if len(segments) == MaxDepth {
		tags.Album = segments[1]
	}
	return tags, nil
}
