package shared

import (
	"encoding/json"
	"fmt"
)

// DecodeStatus tags the outcome of reading a persisted JSON value.
type DecodeStatus int

const (
	DecodeOK DecodeStatus = iota
	DecodeAbsent
	DecodeMalformed
)

func (s DecodeStatus) String() string {
	switch s {
	case DecodeOK:
		return "ok"
	case DecodeAbsent:
		return "absent"
	case DecodeMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("DecodeStatus(%d)", int(s))
	}
}

// Decoded is the tagged result of [DecodeJSON].
//
// Err is set only when Status is [DecodeMalformed] and wraps [ErrPersistenceRead].
type Decoded[T any] struct {
	Value  T
	Status DecodeStatus
	Err    error
}

// OK reports whether the value decoded successfully.
func (d Decoded[T]) OK() bool { return d.Status == DecodeOK }

// DecodeJSON decodes raw into T. A value that was not found (found == false) is [DecodeAbsent];
// empty or unparseable text is [DecodeMalformed].
func DecodeJSON[T any](raw string, found bool) Decoded[T] {
	var out Decoded[T]
	if !found {
		out.Status = DecodeAbsent
		return out
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		out.Status = DecodeMalformed
		out.Err = fmt.Errorf("%w: %v", ErrPersistenceRead, err)
		return out
	}

	out.Value = value
	out.Status = DecodeOK
	return out
}

// MarshalJSON encodes data as JSON, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
