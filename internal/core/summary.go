package core

// Summary is the total distance per activity kind over some set of records.
// Kinds without any record are absent; use Get to read with a zero default.
type Summary map[Kind]float64

// Get returns the total for kind, or zero when no record of that kind was seen.
func (s Summary) Get(kind Kind) float64 {
	return s[kind]
}

// Balance is driving minus cycling, the outstanding debt in meters.
func (s Summary) Balance() float64 {
	return s.Get(Driving) - s.Get(Cycling)
}
