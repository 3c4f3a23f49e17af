package document

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// maxPadding bounds how far past the end of a sequence a write may reach.
const maxPadding = 1024

// hole marks a removed sequence element. It reads as absent and encodes as null.
type hole struct{}

func (hole) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

type writeMode int

const (
	overwrite writeMode = iota
	push
)

// Get returns the value stored at path. The boolean is false when any segment
// is missing or an intermediate value is neither a mapping nor a sequence.
// A key that holds null is present.
func Get(doc Document, path string) (any, bool) {
	segments := ParsePath(path)
	if doc == nil || len(segments) == 0 {
		return nil, false
	}
	var current any = map[string]any(doc)
	for _, seg := range segments {
		next, ok := child(current, seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Has reports whether path resolves to a value in doc.
func Has(doc Document, path string) bool {
	_, ok := Get(doc, path)
	return ok
}

// Set writes value at path, creating missing intermediate containers.
// The document is left untouched when an existing value blocks the path.
func Set(doc Document, path string, value any) error {
	return write("set", doc, path, value, overwrite)
}

// Append behaves like Set, except that when the container holding the final
// segment is a sequence the value is pushed onto it.
func Append(doc Document, path string, value any) error {
	return write("append", doc, path, value, push)
}

// Remove deletes the value at path. It does nothing when the path does not resolve.
// A removed sequence element leaves a hole: later elements keep their index and
// the hole encodes as null.
func Remove(doc Document, path string) {
	segments := ParsePath(path)
	if doc == nil || len(segments) == 0 {
		return
	}
	_, _ = remove(map[string]any(doc), segments)
}

// Clone returns a deep copy of doc.
func Clone(doc Document) Document {
	if doc == nil {
		return nil
	}
	return deepcopy.Copy(doc).(Document)
}

// mapping unwraps a nested Document so every walker sees a plain mapping.
func mapping(node any) any {
	if d, ok := node.(Document); ok {
		return map[string]any(d)
	}
	return node
}

func child(node any, seg Segment) (any, bool) {
	switch c := mapping(node).(type) {
	case map[string]any:
		v, ok := c[seg.Key]
		return v, ok
	case []any:
		if !seg.IsIndex || seg.Index >= len(c) {
			return nil, false
		}
		if _, removed := c[seg.Index].(hole); removed {
			return nil, false
		}
		return c[seg.Index], true
	default:
		return nil, false
	}
}

func write(op string, doc Document, path string, value any, mode writeMode) error {
	segments := ParsePath(path)
	if len(segments) == 0 {
		return &PathError{Op: op, Path: path, Message: "empty path"}
	}
	if doc == nil {
		return &PathError{Op: op, Path: path, Message: "nil document"}
	}
	_, err := assign(map[string]any(doc), segments, value, mode)
	if err != nil {
		err.Op = op
		err.Path = path
		return err
	}
	return nil
}

// assign stores value under node and returns node, which differs from the
// input only when a sequence had to grow. Nothing is mutated when an error is
// returned: writes happen on the way back up.
func assign(node any, segments []Segment, value any, mode writeMode) (any, *PathError) {
	seg := segments[0]
	last := len(segments) == 1

	switch c := mapping(node).(type) {
	case map[string]any:
		if last {
			c[seg.Key] = value
			return c, nil
		}
		updated, err := assignChild(c[seg.Key], segments[1:], value, mode)
		if err != nil {
			return nil, err
		}
		c[seg.Key] = updated
		return c, nil

	case []any:
		if last && mode == push {
			return append(c, value), nil
		}
		if !seg.IsIndex {
			return nil, &PathError{Segment: seg.Key, Message: "key segment on a sequence"}
		}
		if seg.Index-len(c) > maxPadding {
			return nil, &PathError{
				Segment: seg.Key,
				Message: fmt.Sprintf("index %d is more than %d past the end of the sequence", seg.Index, maxPadding),
			}
		}
		if last {
			c = grow(c, seg.Index)
			c[seg.Index] = value
			return c, nil
		}
		var existing any
		if seg.Index < len(c) {
			existing = c[seg.Index]
		}
		updated, err := assignChild(existing, segments[1:], value, mode)
		if err != nil {
			return nil, err
		}
		c = grow(c, seg.Index)
		c[seg.Index] = updated
		return c, nil

	default:
		return nil, &PathError{Segment: seg.Key, Message: fmt.Sprintf("cannot descend into %T", node)}
	}
}

// assignChild descends into existing, or into a fresh container when
// existing is nil or a hole.
func assignChild(existing any, rest []Segment, value any, mode writeMode) (any, *PathError) {
	if _, removed := existing.(hole); removed || existing == nil {
		existing = newContainer(ContainerKindFor(rest[0]))
	}
	return assign(existing, rest, value, mode)
}

func newContainer(kind ContainerKind) any {
	if kind == Sequence {
		return []any{}
	}
	return map[string]any{}
}

func grow(s []any, index int) []any {
	for len(s) <= index {
		s = append(s, nil)
	}
	return s
}

// remove deletes the final segment under node and returns the updated node.
func remove(node any, segments []Segment) (any, bool) {
	seg := segments[0]
	last := len(segments) == 1

	switch c := mapping(node).(type) {
	case map[string]any:
		if last {
			if _, ok := c[seg.Key]; !ok {
				return c, false
			}
			delete(c, seg.Key)
			return c, true
		}
		next, ok := c[seg.Key]
		if !ok {
			return c, false
		}
		updated, changed := remove(next, segments[1:])
		if changed {
			c[seg.Key] = updated
		}
		return c, changed

	case []any:
		if !seg.IsIndex || seg.Index >= len(c) {
			return c, false
		}
		if _, removed := c[seg.Index].(hole); removed {
			return c, false
		}
		if last {
			c[seg.Index] = hole{}
			return c, true
		}
		updated, changed := remove(c[seg.Index], segments[1:])
		if changed {
			c[seg.Index] = updated
		}
		return c, changed

	default:
		return node, false
	}
}
