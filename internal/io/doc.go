// Package ioutils provides file system utilities for pathtag.
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Tree Locks
//
// A TreeLock stops two pathtag runs from rewriting the same tree at once.
// Lock files live outside the tree so a run never adds files to it:
//
//	lock, err := ioutils.AcquireTreeLock(ioutils.DefaultLockDir(), "/music")
//	if errors.Is(err, ioutils.ErrTreeLocked) {
//	    // someone else is tagging /music
//	}
//	defer lock.Release()
package ioutils
