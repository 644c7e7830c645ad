package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const metersPerKilometer = 1000.0

// ParseDistance parses the decimal text of a Distance field. NaN, infinities
// and hexadecimal floats are rejected along with non-numeric text.
func ParseDistance(s string) (float64, error) {
	text := strings.TrimSpace(s)
	if isHexFloat(text) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDistance, s)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDistance, s)
	}
	return v, nil
}

func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Kilometers converts meters to kilometers for display.
func Kilometers(meters float64) float64 {
	return meters / metersPerKilometer
}
