package core

import (
	"errors"
	"time"
)

const (
	Driving Kind = "driving"
	Cycling Kind = "cycling"
)

type (
	// Kind is the mode of travel of an activity.
	Kind string

	// Record is one driving or cycling activity taken from a placemark.
	// Distance is in meters, as stored in the source document.
	Record struct {
		Start    time.Time
		End      time.Time
		Kind     Kind
		Distance float64
	}
)

var (
	// ErrMalformedDistance means a placemark carries a Distance value that is not a number.
	ErrMalformedDistance = errors.New("malformed distance")
	// ErrMalformedTimestamp means a placemark carries a begin or end that is not RFC 3339.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// Kinds lists every activity kind in display order.
var Kinds = []Kind{Driving, Cycling}

// KindFromCategory maps the Category label used in location-history
// exports to a Kind. Other categories are not tracked.
func KindFromCategory(category string) (Kind, bool) {
	switch category {
	case "Driving":
		return Driving, true
	case "Cycling":
		return Cycling, true
	default:
		return "", false
	}
}

func (k Kind) String() string {
	return string(k)
}

// Sign is +1 for activities that add to the debt and -1 for those that repay it.
func (k Kind) Sign() float64 {
	if k == Cycling {
		return -1
	}
	return 1
}
