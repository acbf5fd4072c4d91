// Package classify maps file paths to the output folder they are sorted into.
package classify

import (
	"path/filepath"
	"strings"
)

// DefaultSentinel is the folder name used for files without an extension.
const DefaultSentinel = "no_extension"

// Segment returns the destination folder name for path using DefaultSentinel.
func Segment(path string) string {
	return SegmentWith(path, DefaultSentinel)
}

// SegmentWith returns the extension of path's base name without the leading
// dot, case preserved. Names without an extension (including dotfiles such as
// ".bashrc" and names ending in a bare ".") map to sentinel.
func SegmentWith(path, sentinel string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return sentinel
	}
	return name[i+1:]
}
