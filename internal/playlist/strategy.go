package playlist

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Strategy combines the value held by the target playlist (ours) with the
// value from the playlist being merged in (theirs). Either may be nil when the
// path is missing on that side. Returning ok=false removes the path from the
// result.
type Strategy func(path string, ours, theirs *float64) (value float64, ok bool)

// Average takes the mean of the present values.
func Average(_ string, ours, theirs *float64) (float64, bool) {
	switch {
	case ours != nil && theirs != nil:
		return (*ours + *theirs) / 2, true
	case ours != nil:
		return *ours, true
	case theirs != nil:
		return *theirs, true
	default:
		return 0, false
	}
}

// Extreme returns a strategy that keeps whichever present value lies farthest
// from midpoint. Ties go to the larger value.
func Extreme(midpoint float64) Strategy {
	return func(_ string, ours, theirs *float64) (float64, bool) {
		switch {
		case ours == nil && theirs == nil:
			return 0, false
		case ours == nil:
			return *theirs, true
		case theirs == nil:
			return *ours, true
		}
		a, b := *ours, *theirs
		da, db := math.Abs(a-midpoint), math.Abs(b-midpoint)
		if da > db || (da == db && a >= b) {
			return a, true
		}
		return b, true
	}
}

// TakeNewer prefers the incoming value and falls back to ours.
func TakeNewer(_ string, ours, theirs *float64) (float64, bool) {
	switch {
	case theirs != nil:
		return *theirs, true
	case ours != nil:
		return *ours, true
	default:
		return 0, false
	}
}

// ExistingOnly wraps inner so that paths absent from the target are dropped
// instead of added.
func ExistingOnly(inner Strategy) Strategy {
	return func(path string, ours, theirs *float64) (float64, bool) {
		if ours == nil {
			return 0, false
		}
		return inner(path, ours, theirs)
	}
}

// ParseStrategy builds a strategy from its command-line name:
//
//	average | newer | extreme | extreme:<midpoint>
//
// optionally prefixed with "existing:". A bare "extreme" centres on
// defaultMidpoint.
func ParseStrategy(name string, defaultMidpoint float64) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if rest, ok := strings.CutPrefix(name, "existing:"); ok {
		inner, err := ParseStrategy(rest, defaultMidpoint)
		if err != nil {
			return nil, err
		}
		return ExistingOnly(inner), nil
	}

	switch {
	case name == "average" || name == "avg":
		return Average, nil
	case name == "newer" || name == "update":
		return TakeNewer, nil
	case name == "extreme":
		return Extreme(defaultMidpoint), nil
	case strings.HasPrefix(name, "extreme:"):
		mid, err := strconv.ParseFloat(strings.TrimPrefix(name, "extreme:"), 64)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: invalid midpoint: %w", name, err)
		}
		return Extreme(mid), nil
	default:
		return nil, fmt.Errorf("unknown merge strategy %q", name)
	}
}
