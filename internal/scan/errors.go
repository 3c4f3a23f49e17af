// Package scan checks every bid request file of a directory and writes the reports.
package scan

import "fmt"

// FileError represents a failure reading or writing one file of a scan
type FileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("file error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("file error: %s: %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}
