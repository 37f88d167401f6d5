// Package timerange resolves report date ranges and filters ledger rows
// into them.
package timerange

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/finview-dev/finview/internal/model"
)

const (
	// OperationLayout is the timestamp layout of ledger rows.
	OperationLayout = "02.01.2006 15:04:05"
	// ReferenceLayout is the layout of caller-supplied reference dates.
	ReferenceLayout = "2006-01-02 15:04:05"
)

// ErrMalformedTimestamp is returned when a reference date or row
// timestamp does not match its layout.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// allTimeStart is the "no lower bound" sentinel for RangeAll.
var allTimeStart = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseOperation parses a ledger row timestamp.
func ParseOperation(s string) (time.Time, error) {
	t, err := time.Parse(OperationLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// ParseReference parses a caller-supplied reference end date.
func ParseReference(s string) (time.Time, error) {
	t, err := time.Parse(ReferenceLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// ResolveStart computes the inclusive lower bound of a range ending at
// end. Week starts Monday 00:00:00 of end's ISO week, Month on the
// first of end's month, Year on January 1, All at the 1900 sentinel.
func ResolveStart(end time.Time, kind model.RangeKind) (time.Time, error) {
	switch kind {
	case model.RangeWeek:
		monday := end.AddDate(0, 0, -((int(end.Weekday()) + 6) % 7))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, end.Location()), nil
	case model.RangeMonth:
		return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location()), nil
	case model.RangeYear:
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location()), nil
	case model.RangeAll:
		return allTimeStart, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidRangeKind, kind)
}

// FilterByRange keeps rows whose operation timestamp falls within
// [start, end] inclusive, where start is resolved from the reference
// end and range kind. Kept rows are sorted by timestamp descending;
// rows with equal timestamps keep their original relative order. A
// malformed reference date or row timestamp aborts with
// ErrMalformedTimestamp rather than skipping the row.
func FilterByRange(rows []model.Transaction, endStr string, kind model.RangeKind) ([]model.Transaction, error) {
	end, err := ParseReference(endStr)
	if err != nil {
		return nil, err
	}

	start, err := ResolveStart(end, kind)
	if err != nil {
		return nil, err
	}

	type stamped struct {
		tx model.Transaction
		at time.Time
	}

	var kept []stamped
	for _, tx := range rows {
		at, err := ParseOperation(tx.Date)
		if err != nil {
			return nil, err
		}
		if at.Before(start) || at.After(end) {
			continue
		}
		kept = append(kept, stamped{tx: tx, at: at})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].at.After(kept[j].at)
	})

	out := make([]model.Transaction, len(kept))
	for i, s := range kept {
		out[i] = s.tx
	}
	return out, nil
}
