package conv

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrOverflow is matched by every *OverflowError.
var ErrOverflow = errors.New("integer overflow")

// OverflowError reports a value that cannot be represented in the target type.
type OverflowError struct {
	Value  string // decimal rendering of the source value
	From   string // source type name
	To     string // target type name
	Reason string // "negative" or "too large"
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %s (%s) cannot be converted to %s (%s)", e.Value, e.From, e.To, e.Reason)
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

// To converts v to D, failing when the value does not survive the round trip.
func To[D, S constraints.Integer](v S) (D, error) {
	d := D(v)
	if S(d) != v || (v < 0) != (d < 0) {
		return 0, overflow[D](v)
	}
	return d, nil
}

// Len converts a length or count field to a non-negative int.
func Len[S constraints.Integer](v S) (int, error) {
	if v < 0 {
		return 0, overflow[int](v)
	}
	return To[int](v)
}

// MustTo is To for values the caller has already bounded. It panics on overflow.
func MustTo[D, S constraints.Integer](v S) D {
	d, err := To[D](v)
	if err != nil {
		panic(err)
	}
	return d
}

func overflow[D, S constraints.Integer](v S) *OverflowError {
	reason := "too large"
	if v < 0 {
		reason = "negative"
	}
	var d D
	return &OverflowError{
		Value:  fmt.Sprint(v),
		From:   fmt.Sprintf("%T", v),
		To:     fmt.Sprintf("%T", d),
		Reason: reason,
	}
}
