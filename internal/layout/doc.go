// Package layout maps a directory's position in the music tree to the tags
// its files should carry.
//
// The tree is expected to look like:
//
//	<base>/<artist>/<album>/<file>
//	<base>/<artist>/<file>          // album becomes "Unknown"
//
// Depth is the only validity signal. The base directory itself and anything
// three or more levels deep are rejected with a *PathError so that files
// outside the expected shape are never touched.
//
//	tags, err := layout.Classify("Beatles/Revolver")
//	// tags = {Artist: "Beatles", Album: "Revolver"}
//
//	_, err = layout.Classify("Beatles/Revolver/Scans")
//	var pathErr *layout.PathError
//	errors.As(err, &pathErr) // true
package layout
