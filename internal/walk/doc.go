// Package walk collects tag-writing tasks from a music tree.
//
// A Collector traverses the base directory, classifies every directory it
// visits with layout.Classify and pairs each regular file in a valid
// directory with the derived tags. Directories that fail classification
// produce nothing, but their subdirectories are still visited.
//
//	c := walk.NewCollector(logger)
//	for task := range c.Tasks(ctx, "/music") {
//	    fmt.Println(task.Path, task.Tags)
//	}
//
// The sequence is lazy and can be restarted by calling Tasks again.
package walk
