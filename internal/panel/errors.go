package panel

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors matched by the concrete error types below via errors.Is.
var (
	ErrOutOfRange       = errors.New("coordinate out of range")
	ErrCapacityExceeded = errors.New("region label capacity exceeded")
	ErrResourceLimit    = errors.New("flood fill queue limit exceeded")
)

// RangeError reports a coordinate that lies outside the buffer bounds.
type RangeError struct {
	Point  image.Point
	Bounds image.Rectangle
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("image: [%d,%d], point: (%d,%d)",
		e.Bounds.Dx(), e.Bounds.Dy(), e.Point.X, e.Point.Y)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// CapacityError reports that labelling needed more raw region ids than allowed.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("region labels: more than %d raw ids required", e.Limit)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }

// ResourceError reports that the flood fill work queue grew past its bound.
type ResourceError struct {
	Limit int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("flood fill: queue exceeded %d pending pixels", e.Limit)
}

func (e *ResourceError) Is(target error) bool { return target == ErrResourceLimit }

// checkPoint returns a RangeError if p is not inside bounds.
func checkPoint(p image.Point, bounds image.Rectangle) error {
	if !p.In(bounds) {
		return &RangeError{Point: p, Bounds: bounds}
	}
	return nil
}

// checkRect returns a RangeError naming the first corner of r that falls outside bounds.
func checkRect(r, bounds image.Rectangle) error {
	if r.Empty() || r.In(bounds) {
		return nil
	}
	if !r.Min.In(bounds) {
		return &RangeError{Point: r.Min, Bounds: bounds}
	}
	return &RangeError{Point: r.Max.Sub(image.Pt(1, 1)), Bounds: bounds}
}
