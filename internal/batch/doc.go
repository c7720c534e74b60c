// Package batch runs the tagging pipeline over a whole tree.
//
// # Runner
//
// The Runner ties the pieces together:
//
//  1. Walk the base directory and classify each directory
//  2. Pair every file in a valid directory with its tags
//  3. Write the tags, sequentially or on a bounded worker pool
//  4. Wait for every write and report a Summary
//
// # Basic Usage
//
//	runner, err := batch.NewRunner(settings, logger, func(event batch.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := runner.Run(ctx, "/music")
//
// # Concurrency
//
// settings.Workers sets how many files are written at once. One worker
// writes in walk order on the calling goroutine. Tasks touch distinct files
// and share nothing but counters, so any worker count is safe.
//
// Run always joins every dispatched write before returning. Files that
// cannot be opened are counted as skipped; files that fail to save are
// listed in Summary.Failures. Neither aborts the run.
package batch
