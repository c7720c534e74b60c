// Package logging builds the run-scoped zap logger used across pathtag.
//
// There is no package-level logger. Callers build one per run and inject it:
//
//	log, err := logging.New(logging.Options{Level: "info", Format: "auto"})
//	log = logging.WithRun(log)
//	defer log.Sync()
//
// Format "auto" picks a coloured console encoder when the output is a
// terminal and JSON otherwise.
package logging
