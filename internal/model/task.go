package model

// Task is one unit of work for the write stage: a file and the tags it
// should carry once written.
type Task struct {
	// Path is the file location, joined onto the walked base directory.
	Path string

	// Tags is the TagSet derived from the file's parent directory.
	Tags TagSet
}
