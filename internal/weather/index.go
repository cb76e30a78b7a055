package weather

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

type indexKind int

const (
	indexInvalid indexKind = iota
	indexOffset
	indexText
	indexInstant
	indexWall
)

// Index selects a timestep of a Series. Build one with Offset, Text,
// Instant or Wall; the zero Index is rejected with ErrUnsupportedIndex.
type Index struct {
	kind indexKind
	n    int
	s    string
	t    time.Time
}

// Offset counts timesteps from the first one not before the current time.
// Negative offsets count from the end of the series.
func Offset(n int) Index { return Index{kind: indexOffset, n: n} }

// Text matches the canonical "2006-01-02T15:04:05" form, or "2006-01-02"
// for day-keyed series, read in the series zone.
func Text(s string) Index { return Index{kind: indexText, s: s} }

// Instant matches an absolute point in time, converted to the series zone.
func Instant(t time.Time) Index { return Index{kind: indexInstant, t: t} }

// Wall matches the wall-clock fields of t as if they were written in the
// series zone, ignoring t's own location.
func Wall(t time.Time) Index { return Index{kind: indexWall, t: t} }

// IndexOf maps dynamically typed values onto an Index: integers of any
// width become offsets, strings become Text and time.Time values become
// Instant. Unsigned values beyond the int range are rejected.
func IndexOf(v any) (Index, error) {
	switch x := v.(type) {
	case Index:
		if x.kind == indexInvalid {
			return Index{}, fmt.Errorf("%w: zero Index", ErrUnsupportedIndex)
		}
		return x, nil
	case int:
		return Offset(x), nil
	case int8:
		return Offset(int(x)), nil
	case int16:
		return Offset(int(x)), nil
	case int32:
		return Offset(int(x)), nil
	case int64:
		return Offset(int(x)), nil
	case uint8:
		return Offset(int(x)), nil
	case uint16:
		return Offset(int(x)), nil
	case uint32:
		return Offset(int(x)), nil
	case uint:
		if uint64(x) <= math.MaxInt {
			return Offset(int(x)), nil
		}
	case uint64:
		if x <= math.MaxInt {
			return Offset(int(x)), nil
		}
	case string:
		return Text(x), nil
	case time.Time:
		return Instant(x), nil
	case *time.Time:
		if x == nil {
			break
		}
		return Instant(*x), nil
	}
	return Index{}, fmt.Errorf("%w: %T (%v)", ErrUnsupportedIndex, v, v)
}

// ParseIndex reads an index from text: integers are offsets, anything else
// is a date/time string.
func ParseIndex(s string) Index {
	if n, err := strconv.Atoi(s); err == nil {
		return Offset(n)
	}
	return Text(s)
}

func (i Index) String() string {
	switch i.kind {
	case indexOffset:
		return strconv.Itoa(i.n)
	case indexText:
		return strconv.Quote(i.s)
	case indexInstant:
		return i.t.Format(time.RFC3339Nano)
	case indexWall:
		return i.t.Format(wallLayout)
	default:
		return "<invalid index>"
	}
}

// wallLayout renders every wall-clock field, so two stamps are equal only
// when the local date and time agree to the nanosecond.
const wallLayout = "2006-01-02T15:04:05.999999999"

func wallStamp(t time.Time) string { return t.Format(wallLayout) }
func dayStamp(t time.Time) string { return t.Format(LayoutDay) }
