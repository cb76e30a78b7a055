package weather

import (
	"fmt"
	"sort"
	"time"
)

// Series is an ordered, immutable sequence of timesteps of one section,
// all expressed in the same reference zone.
type Series struct {
	section Section
	key     string
	loc     *time.Location
	records []*Record
	summary string
	clock   Clock
}

// EmptySeries returns a placeholder for a section that was not fetched.
func EmptySeries(section Section, loc *time.Location) *Series {
	if loc == nil {
		loc = time.UTC
	}
	return &Series{section: section, key: section.TemporalKey(), loc: loc, clock: SystemClock}
}

func newSeries(section Section, raw any, z zones, clock Clock) (*Series, error) {
	items, summary, err := sectionItems(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", section, err)
	}

	s := EmptySeries(section, z.target)
	s.summary = summary
	if clock != nil {
		s.clock = clock
	}

	s.records = make([]*Record, 0, len(items))
	for i, item := range items {
		rec, err := buildRecord(item, z)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		if section != SectionAlerts {
			if _, ok := rec.timeOf(s.key); !ok {
				return nil, fmt.Errorf("%w: %s[%d] has no %q", ErrInvalidPayload, section, i, s.key)
			}
		}
		s.records = append(s.records, rec)
	}
	return s, nil
}

func (s *Series) Section() Section { return s.section }
func (s *Series) Location() *time.Location { return s.loc }
func (s *Series) Len() int { return len(s.records) }
func (s *Series) IsEmpty() bool { return len(s.records) == 0 }

// TemporalKey is the member used to index the series: "date" or "day".
func (s *Series) TemporalKey() string { return s.key }

// Summary is the textual section summary, present for minutely data.
func (s *Series) Summary() string { return s.summary }

// Records returns the timesteps in source order.
func (s *Series) Records() []*Record {
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns the i-th stored timestep, counting from the first one.
func (s *Series) Record(i int) (*Record, error) {
	if i < 0 || i >= len(s.records) {
		return nil, s.lookupErr(ErrIndexOutOfRange, fmt.Sprintf("position %d of %d", i, len(s.records)))
	}
	return s.records[i], nil
}

// Dates returns the temporal value of every timestep. Timesteps without one
// yield the zero time.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.records))
	for i, r := range s.records {
		out[i], _ = r.timeOf(s.key)
	}
	return out
}

// DateStrings formats Dates in the series' canonical layout.
func (s *Series) DateStrings() []string {
	out := make([]string, len(s.records))
	for i, t := range s.Dates() {
		if t.IsZero() {
			out[i] = "-"
			continue
		}
		out[i] = t.In(s.loc).Format(s.layout())
	}
	return out
}

// Members returns the union of member names over all timesteps.
func (s *Series) Members() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.records {
		for _, name := range r.names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	if out == nil {
		out = []string{}
	}
	return out
}

// Lookup resolves idx to a timestep. Offset lookups depend on the series
// clock and may resolve differently as real time passes.
func (s *Series) Lookup(idx Index) (*Record, error) {
	switch idx.kind {
	case indexOffset:
		return s.byOffset(idx.n)
	case indexText:
		return s.byText(idx.s)
	case indexInstant:
		return s.byInstant(idx.t)
	case indexWall:
		return s.byWall(idx.t)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedIndex, idx)
}

// LookupAny is Lookup for dynamically typed indices, see IndexOf.
func (s *Series) LookupAny(v any) (*Record, error) {
	idx, err := IndexOf(v)
	if err != nil {
		return nil, err
	}
	return s.Lookup(idx)
}

func (s *Series) byOffset(n int) (*Record, error) {
	i := len(s.records) + n
	if n >= 0 {
		i = s.anchor(s.clock.Now()) + n
	}
	if i < 0 || i >= len(s.records) {
		return nil, s.lookupErr(ErrIndexOutOfRange, fmt.Sprintf("offset %d", n))
	}
	return s.records[i], nil
}

// anchor is the position of the first timestep not before now. Day-keyed
// series compare calendar days in the series zone.
func (s *Series) anchor(now time.Time) int {
	ref := now.In(s.loc)
	if s.key == KeyDay {
		ref = dayStart(ref.Year(), ref.Month(), ref.Day(), s.loc)
	}
	for i, r := range s.records {
		if t, ok := r.timeOf(s.key); ok && !t.Before(ref) {
			return i
		}
	}
	return len(s.records)
}

func (s *Series) byText(text string) (*Record, error) {
	t, err := s.parse(text)
	if err != nil {
		return nil, err
	}
	return s.matchWall(t, Text(text))
}

func (s *Series) byWall(t time.Time) (*Record, error) {
	return s.matchWall(t, Wall(t))
}

// matchWall compares wall-clock stamps, so a repeated local hour on a DST
// change resolves to its first occurrence. Day-keyed series compare the
// calendar date only.
func (s *Series) matchWall(t time.Time, idx Index) (*Record, error) {
	stamp := wallStamp
	if s.key == KeyDay {
		stamp = dayStamp
	}
	want := stamp(t)
	for _, r := range s.records {
		if rt, ok := r.timeOf(s.key); ok && stamp(rt.In(s.loc)) == want {
			return r, nil
		}
	}
	return nil, s.lookupErr(ErrTemporalNotFound, idx.String())
}

func (s *Series) byInstant(t time.Time) (*Record, error) {
	for _, r := range s.records {
		if rt, ok := r.timeOf(s.key); ok && rt.Equal(t) {
			return r, nil
		}
	}
	return nil, s.lookupErr(ErrTemporalNotFound, Instant(t).String())
}

// parse reads text strictly in the series layout. The result carries the
// wall-clock fields only; callers place them in the series zone.
func (s *Series) parse(text string) (time.Time, error) {
	return parseWall(text, s.layout())
}

func parseWall(text, layout string) (time.Time, error) {
	t, err := time.Parse(layout, text)
	if err != nil || t.Format(layout) != text {
		return time.Time{}, fmt.Errorf("%w: %q, should be %q", ErrTemporalParse, text, layout)
	}
	return t, nil
}

// instant normalizes Text, Wall and Instant indices to a point in time.
func (s *Series) instant(idx Index) (time.Time, error) {
	w := idx.t
	switch idx.kind {
	case indexInstant:
		return idx.t.In(s.loc), nil
	case indexText:
		t, err := parseWall(idx.s, LayoutDateTime)
		if err != nil {
			return time.Time{}, err
		}
		w = t
	case indexWall:
	default:
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnsupportedIndex, idx)
	}
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), s.loc), nil
}

func (s *Series) layout() string {
	if s.key == KeyDay {
		return LayoutDay
	}
	return LayoutDateTime
}

func (s *Series) lookupErr(kind error, detail string) error {
	if len(s.records) == 0 {
		return fmt.Errorf("%w: %w: %s", ErrEmptyInstance, kind, detail)
	}
	return fmt.Errorf("%w: %s in %s", kind, detail, s.section)
}

func (s *Series) String() string {
	if len(s.records) == 0 {
		return fmt.Sprintf("<Empty Series %s>", s.section)
	}
	dates := s.DateStrings()
	return fmt.Sprintf("<Series %s with %d timesteps from %s to %s>",
		s.section, len(s.records), dates[0], dates[len(dates)-1])
}
