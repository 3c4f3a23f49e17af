// Package document provides path-addressed access to untyped JSON documents.
package document

import "fmt"

// PathError represents a path that cannot be written because an existing value
// along the path has the wrong container type.
type PathError struct {
	Op      string
	Path    string
	Segment string
	Message string
}

func (e *PathError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("path error: %s %s at %q: %s", e.Op, e.Path, e.Segment, e.Message)
	}
	return fmt.Sprintf("path error: %s %s: %s", e.Op, e.Path, e.Message)
}
