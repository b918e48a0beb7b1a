package radar

import "gonum.org/v1/gonum/spatial/r2"

// DetectionKind tags a frame as showing a contact or not.
type DetectionKind int

const (
	OutOfRange DetectionKind = iota
	InRange
)

func (k DetectionKind) String() string {
	if k == InRange {
		return "IN RANGE"
	}
	return "CLEAR"
}

// Detection is the per-frame classification. Object is only meaningful
// when Kind is InRange.
type Detection struct {
	Kind   DetectionKind
	Object r2.Vec
}

// Classify reports whether the object point lies on the visible disk.
// A point exactly on the edge counts as in range.
func Classify(object, origin r2.Vec, visibleRadius float64) Detection {
	if r2.Norm(r2.Sub(object, origin)) <= visibleRadius {
		return Detection{Kind: InRange, Object: object}
	}
	return Detection{Kind: OutOfRange}
}
