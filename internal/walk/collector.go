package walk

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/handiism/pathtag/internal/layout"
	"github.com/handiism/pathtag/internal/model"
	"go.uber.org/zap"
)

// Collector walks a base directory and yields tasks.
type Collector struct {
	log *zap.Logger
}

// NewCollector creates a Collector. A nil logger discards output.
func NewCollector(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

// Tasks returns a lazy sequence of tasks found under base.
//
// Classification failures never stop the walk. Unreadable directories are
// logged and skipped. The walk ends early when the consumer stops ranging or
// ctx is cancelled.
//
// A base that is itself a symlink is followed; links below it are not.
// Task paths always start with base as given.
func (c *Collector) Tasks(ctx context.Context, base string) iter.Seq[model.Task] {
	base = filepath.Clean(base)
	return func(yield func(model.Task) bool) {
		root := c.resolveRoot(base)

		// Tags of every directory visited so far; a nil entry means the
		// directory did not classify.
		dirs := make(map[string]*model.TagSet)

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				c.log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				dirs[path] = c.classify(root, path)
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			tags := dirs[filepath.Dir(path)]
			if tags == nil {
				return nil
			}
			if root != base {
				if rel, err := filepath.Rel(root, path); err == nil {
					path = filepath.Join(base, rel)
				}
			}
			if !yield(model.Task{Path: path, Tags: *tags}) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn("walk ended early", zap.String("base", base), zap.Error(err))
		}
	}
}

// resolveRoot follows base when it is a symlink, since WalkDir does not
// follow its root.
func (c *Collector) resolveRoot(base string) string {
	info, err := os.Lstat(base)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return base
	}
	root, err := filepath.EvalSymlinks(base)
	if err != nil {
		c.log.Warn("cannot resolve base directory", zap.String("base", base), zap.Error(err))
		return base
	}
	c.log.Debug("following symlinked base", zap.String("base", base), zap.String("target", root))
	return root
}

// Collect drains Tasks into a slice.
func (c *Collector) Collect(ctx context.Context, base string) []model.Task {
	var tasks []model.Task
	for task := range c.Tasks(ctx, base) {
		tasks = append(tasks, task)
	}
	return tasks
}

func (c *Collector) classify(base, dir string) *model.TagSet {
	rel, err := filepath.Rel(base, dir)
	if err != nil {
		c.log.Debug("cannot relate directory to base", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	tags, err := layout.Classify(rel)
	if err != nil {
		var pathErr *layout.PathError
		if errors.As(err, &pathErr) && pathErr.Depth > 0 {
			c.log.Debug("directory outside artist/album layout", zap.String("dir", rel), zap.Int("depth", pathErr.Depth))
		}
		return nil
	}

	c.log.Debug("directory classified",
		zap.String("dir", rel),
		zap.String("artist", tags.Artist),
		zap.String("album", tags.Album),
	)
	return &tags
}
