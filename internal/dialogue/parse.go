package dialogue

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseArea for input that is not a finite number.
var ErrNotANumber = errors.New("area is not a number")

// ParseArea reads a user-typed area. A decimal comma is accepted.
func ParseArea(text string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}
