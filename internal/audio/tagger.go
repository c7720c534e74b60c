package audio

import (
	"fmt"

	"github.com/handiism/pathtag/internal/model"
	"go.uber.org/zap"
)

// TagEditAction defines how to handle individual tags.
//
// Each field can be configured independently to determine whether it
// should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagModify updates the tag with the value derived from the path.
	TagModify TagEditAction = iota

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify

	// TagEmpty clears the tag value (sets to empty string).
	TagEmpty
)

// ParseTagEditAction converts a settings value ("modify", "keep", "empty").
func ParseTagEditAction(s string) (TagEditAction, error) {
	switch s {
	case "", "modify":
		return TagModify, nil
	case "keep":
		return TagDoNotModify, nil
	case "empty":
		return TagEmpty, nil
	default:
		return TagModify, fmt.Errorf("unknown tag action %q (want modify, keep or empty)", s)
	}
}

// TagConfig holds the edit action for each writable field.
//
// Example:
//
//	cfg := &TagConfig{
//	    Artist: TagModify,      // take artist from the directory name
//	    Album:  TagDoNotModify, // keep whatever album the file has
//	}
type TagConfig struct {
	// Artist controls the artist field (ID3 TPE1, Vorbis ARTIST).
	Artist TagEditAction

	// Album controls the album field (ID3 TALB, Vorbis ALBUM).
	Album TagEditAction

	// DryRun opens each container but never sets or saves anything.
	DryRun bool
}

// DefaultTagConfig returns the default tag configuration: both fields are
// overwritten from the path.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Artist: TagModify,
		Album:  TagModify,
	}
}

func (c *TagConfig) action(field model.Field) TagEditAction {
	switch field {
	case model.FieldArtist:
		return c.Artist
	case model.FieldAlbum:
		return c.Album
	default:
		return TagDoNotModify
	}
}

// Outcome describes what Write did with a file.
type Outcome int

const (
	// OutcomeWritten means the tags were set and saved.
	OutcomeWritten Outcome = iota

	// OutcomeSkipped means the file could not be opened as a tag container.
	OutcomeSkipped

	// OutcomeDryRun means the container opened but nothing was written.
	OutcomeDryRun

	// OutcomeFailed means saving the container failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Tagger writes artist/album tags through a Backend.
//
// Example:
//
//	backend, _ := NewBackend(BackendAuto, BackendOptions{})
//	tagger := NewTagger(backend, DefaultTagConfig(), logger)
//	outcome, err := tagger.Write(task.Path, task.Tags)
type Tagger struct {
	backend Backend
	config  *TagConfig
	log     *zap.Logger
}

// NewTagger creates a new Tagger.
//
// If config is nil, DefaultTagConfig() is used. A nil logger discards output.
func NewTagger(backend Backend, config *TagConfig, log *zap.Logger) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tagger{backend: backend, config: config, log: log}
}

// Write sets the configured fields of the file at path and saves it.
//
// A file that cannot be opened is logged at info level and skipped without
// an error. Saving happens exactly once per call. The returned error is
// non-nil only when the save itself fails.
func (t *Tagger) Write(path string, tags model.TagSet) (Outcome, error) {
	container, err := t.backend.Open(path)
	if err != nil {
		t.log.Info("failed to load tag container", zap.String("path", path), zap.Error(err))
		return OutcomeSkipped, nil
	}
	defer func() {
		if cerr := container.Close(); cerr != nil {
			t.log.Debug("closing tag container", zap.String("path", path), zap.Error(cerr))
		}
	}()

	if t.config.DryRun {
		t.log.Info("would write tags",
			zap.String("path", path),
			zap.String("artist", tags.Artist),
			zap.String("album", tags.Album),
		)
		return OutcomeDryRun, nil
	}

	t.updateFields(container, tags)

	if err := container.Save(); err != nil {
		t.log.Warn("failed to save tags", zap.String("path", path), zap.Error(err))
		return OutcomeFailed, fmt.Errorf("save %s: %w", path, err)
	}

	t.log.Debug("tags written",
		zap.String("path", path),
		zap.String("artist", tags.Artist),
		zap.String("album", tags.Album),
	)
	return OutcomeWritten, nil
}

// updateFields applies the configured action to every field.
func (t *Tagger) updateFields(c Container, tags model.TagSet) {
	for _, field := range model.Fields {
		switch t.config.action(field) {
		case TagModify:
			c.Set(field, tags.Value(field))
		case TagEmpty:
			c.Set(field, "")
		}
	}
}
