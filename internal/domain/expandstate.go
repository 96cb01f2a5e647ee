package domain

import "fmt"

// Expand-state token values. A stream is a sequence of (type, value) pairs;
// every path begins with a separator pair.
const (
	StateSeparator int64 = -1
	StateCategory  int64 = 1
	StateTag       int64 = 2
	StateYear      int64 = 3
	StateMonth     int64 = 4
)

// Segment is one step of a persisted expand path. Value is the category id,
// tag id, year or month depending on Type.
type Segment struct {
	Type  int64
	Value int64
}

func (s Segment) String() string {
	switch s.Type {
	case StateCategory:
		return fmt.Sprintf("category(%d)", s.Value)
	case StateTag:
		return fmt.Sprintf("tag(%d)", s.Value)
	case StateYear:
		return fmt.Sprintf("year(%d)", s.Value)
	case StateMonth:
		return fmt.Sprintf("month(%d)", s.Value)
	}
	return fmt.Sprintf("unknown(%d,%d)", s.Type, s.Value)
}

// SegmentForKey returns the persisted form of a node key. Root and tour keys
// are never part of a path.
func SegmentForKey(k Key) (Segment, bool) {
	switch k.Variant {
	case VariantCategory:
		return Segment{Type: StateCategory, Value: k.ID}, true
	case VariantTag:
		return Segment{Type: StateTag, Value: k.ID}, true
	case VariantYear:
		return Segment{Type: StateYear, Value: int64(k.Year)}, true
	case VariantMonth:
		return Segment{Type: StateMonth, Value: int64(k.Month)}, true
	}
	return Segment{}, false
}

// Matches reports whether a node with key k satisfies the segment.
func (s Segment) Matches(k Key) bool {
	seg, ok := SegmentForKey(k)
	return ok && seg == s
}

// DecodeError reports where a token stream stopped being readable.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("expand state: %s at token %d", e.Reason, e.Offset)
}

// EncodeExpandState writes each path as a separator pair followed by one
// pair per segment.
func EncodeExpandState(paths [][]Segment) []int64 {
	var out []int64
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		out = append(out, StateSeparator, StateSeparator)
		for _, seg := range path {
			out = append(out, seg.Type, seg.Value)
		}
	}
	return out
}

// DecodeExpandState splits a token stream back into paths. Decoding stops at
// the first malformed pair; the complete paths read before it are returned
// together with a *DecodeError.
func DecodeExpandState(tokens []int64) ([][]Segment, error) {
	var paths [][]Segment
	var current []Segment

	for i := 0; i < len(tokens); i += 2 {
		if i+1 >= len(tokens) {
			return paths, &DecodeError{Offset: i, Reason: "truncated pair"}
		}
		typ, val := tokens[i], tokens[i+1]

		switch typ {
		case StateSeparator:
			if val != StateSeparator {
				return paths, &DecodeError{Offset: i, Reason: "malformed separator"}
			}
			if len(current) > 0 {
				paths = append(paths, current)
			}
			current = nil

		case StateMonth:
			if val < 1 || val > 12 {
				return paths, &DecodeError{Offset: i, Reason: fmt.Sprintf("month %d out of range", val)}
			}
			current = append(current, Segment{Type: typ, Value: val})

		case StateCategory, StateTag, StateYear:
			current = append(current, Segment{Type: typ, Value: val})

		default:
			return paths, &DecodeError{Offset: i, Reason: fmt.Sprintf("unknown item type %d", typ)}
		}
	}

	if len(current) > 0 {
		paths = append(paths, current)
	}
	return paths, nil
}

// ViewState is what a view persists between sessions.
type ViewState struct {
	Layout   Layout  `codec:"layout"`
	Expanded []int64 `codec:"expanded"`
}

// DefaultViewState is used when nothing has been saved yet.
func DefaultViewState() ViewState {
	return ViewState{Layout: LayoutHierarchical}
}
