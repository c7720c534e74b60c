package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/pathtag/internal/audio"
	"github.com/handiism/pathtag/internal/config"
	"github.com/handiism/pathtag/internal/model"
	"github.com/handiism/pathtag/internal/walk"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a tagging progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Failure records a file whose tags could not be saved.
type Failure struct {
	Path string
	Err  error
}

// Summary is the result of one run.
type Summary struct {
	Discovered int
	Written    int
	Skipped    int
	DryRun     int
	Failed     int
	Failures   []Failure
	Elapsed    time.Duration
}

// OK reports whether no file failed to save.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Runner walks a tree and writes tags to every task it finds.
type Runner struct {
	collector *walk.Collector
	tagger    *audio.Tagger
	workers   int
	log       *zap.Logger

	discovered int32
	processed  int32
	summary    Summary

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewRunner creates a Runner from settings, building the configured backend.
//
// onProgress may be nil. With more than one worker it is called from several
// goroutines at once.
func NewRunner(settings *config.Settings, log *zap.Logger, onProgress func(ProgressEvent)) (*Runner, error) {
	backend, err := audio.NewBackend(settings.Backend, settings.ToBackendOptions())
	if err != nil {
		return nil, err
	}
	return NewRunnerWithBackend(settings, backend, log, onProgress), nil
}

// NewRunnerWithBackend creates a Runner that writes through backend.
func NewRunnerWithBackend(settings *config.Settings, backend audio.Backend, log *zap.Logger, onProgress func(ProgressEvent)) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	workers := settings.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		collector:  walk.NewCollector(log),
		tagger:     audio.NewTagger(backend, settings.ToTagConfig(), log),
		workers:    workers,
		log:        log,
		onProgress: onProgress,
	}
}

// Run tags every file under base and waits for all writes to finish.
//
// With one worker tasks are written in walk order on the calling goroutine.
// With more, up to Workers writes run at once. Per-file problems never stop
// the run; they are counted in the summary. Cancelling ctx stops new
// dispatches, lets in-flight writes finish and returns ctx.Err() together
// with the partial summary.
func (r *Runner) Run(ctx context.Context, base string) (*Summary, error) {
	start := time.Now()
	r.reset()

	r.progress(ProgressEvent{Message: fmt.Sprintf("Scanning %s", base), Level: LevelInfo})
	r.log.Info("run started", zap.String("base", base), zap.Int("workers", r.workers))

	if r.workers == 1 {
		for task := range r.collector.Tasks(ctx, base) {
			atomic.AddInt32(&r.discovered, 1)
			r.process(task)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(r.workers)

		for task := range r.collector.Tasks(ctx, base) {
			atomic.AddInt32(&r.discovered, 1)
			g.Go(func() error {
				r.process(task)
				return nil
			})
		}

		// Join everything dispatched so no write outlives the run.
		_ = g.Wait()
	}

	summary := r.finish(time.Since(start))
	r.log.Info("run finished",
		zap.Int("discovered", summary.Discovered),
		zap.Int("written", summary.Written),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed),
	)

	if err := ctx.Err(); err != nil {
		r.progress(ProgressEvent{Message: "Run cancelled", Level: LevelWarning})
		return summary, err
	}

	switch {
	case !summary.OK():
		r.progress(ProgressEvent{Message: fmt.Sprintf("Finished with %d failed files", summary.Failed), Level: LevelWarning})
	case summary.DryRun > 0:
		r.progress(ProgressEvent{Message: fmt.Sprintf("Would tag %d of %d files", summary.DryRun, summary.Discovered), Level: LevelSuccess})
	default:
		r.progress(ProgressEvent{Message: fmt.Sprintf("Tagged %d of %d files", summary.Written, summary.Discovered), Level: LevelSuccess})
	}
	return summary, nil
}

// Progress returns how many tasks were processed out of those discovered so far.
func (r *Runner) Progress() (processed, discovered int32) {
	return atomic.LoadInt32(&r.processed), atomic.LoadInt32(&r.discovered)
}

func (r *Runner) process(task model.Task) {
	outcome, err := r.tagger.Write(task.Path, task.Tags)
	atomic.AddInt32(&r.processed, 1)

	r.mu.Lock()
	switch outcome {
	case audio.OutcomeWritten:
		r.summary.Written++
	case audio.OutcomeSkipped:
		r.summary.Skipped++
	case audio.OutcomeDryRun:
		r.summary.DryRun++
	case audio.OutcomeFailed:
		r.summary.Failed++
		r.summary.Failures = append(r.summary.Failures, Failure{Path: task.Path, Err: err})
	}
	r.mu.Unlock()

	name := filepath.Base(task.Path)
	switch outcome {
	case audio.OutcomeWritten:
		r.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s (%s)", name, task.Tags), Level: LevelVerbose})
	case audio.OutcomeDryRun:
		r.progress(ProgressEvent{Message: fmt.Sprintf("Would tag: %s (%s)", name, task.Tags), Level: LevelVerbose})
	case audio.OutcomeSkipped:
		r.progress(ProgressEvent{Message: fmt.Sprintf("Skipped: %s", name), Level: LevelVerbose})
	case audio.OutcomeFailed:
		r.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", name, err), Level: LevelError})
	}
}

func (r *Runner) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = Summary{}
	atomic.StoreInt32(&r.discovered, 0)
	atomic.StoreInt32(&r.processed, 0)
}

func (r *Runner) finish(elapsed time.Duration) *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := r.summary
	summary.Discovered = int(atomic.LoadInt32(&r.discovered))
	summary.Elapsed = elapsed
	return &summary
}

func (r *Runner) progress(event ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}
