// Package document provides path-addressed access to untyped JSON documents.
package document

import (
	"regexp"
	"strconv"
	"strings"
)

// Document is a decoded JSON object. Nested values are map[string]any, []any,
// string, json.Number, float64, bool or nil.
type Document map[string]any

// Segment is one step of a parsed path.
type Segment struct {
	Key     string // Raw segment text, used for mapping access
	Index   int    // Sequence index, valid when IsIndex is true
	IsIndex bool
}

func (s Segment) String() string {
	return s.Key
}

// ContainerKind is the type of container created for a missing intermediate segment.
type ContainerKind int

const (
	// Mapping is a JSON object.
	Mapping ContainerKind = iota
	// Sequence is a JSON array.
	Sequence
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// ParsePath converts a path such as "imp[0].bidfloor" into its segments
// ("imp", "0", "bidfloor"). Bracket indices and dotted numeric segments are
// equivalent, so "imp.0.bidfloor" parses the same way.
func ParsePath(path string) []Segment {
	if path == "" {
		return nil
	}
	parts := strings.Split(bracketIndex.ReplaceAllString(path, ".$1"), ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, parseSegment(part))
	}
	return segments
}

func parseSegment(part string) Segment {
	seg := Segment{Key: part}
	if part == "" {
		return seg
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return seg
		}
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return seg
	}
	seg.Index = n
	seg.IsIndex = true
	return seg
}

// ContainerKindFor decides which container to create in front of next:
// a sequence when next is an index, otherwise a mapping.
func ContainerKindFor(next Segment) ContainerKind {
	if next.IsIndex {
		return Sequence
	}
	return Mapping
}

// FormatIndex renders a sequence element path such as "imp[2]".
func FormatIndex(name string, index int) string {
	return name + "[" + strconv.Itoa(index) + "]"
}
