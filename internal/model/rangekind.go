package model

import (
	"errors"
	"fmt"
)

// RangeKind selects the lower bound of a report's date filter.
type RangeKind string

const (
	RangeWeek  RangeKind = "W"
	RangeMonth RangeKind = "M"
	RangeYear  RangeKind = "Y"
	RangeAll   RangeKind = "All"
)

// ErrInvalidRangeKind is returned for range kinds outside W/M/Y/All.
var ErrInvalidRangeKind = errors.New("invalid range kind")

// ParseRangeKind validates a range kind string.
func ParseRangeKind(s string) (RangeKind, error) {
	switch RangeKind(s) {
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return RangeKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRangeKind, s)
}
