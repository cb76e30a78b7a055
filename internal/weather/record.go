package weather

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Record holds the variables available at one instant. Grouped variables
// (wind, precipitation, ...) are nested records. The member set is fixed
// when the record is built.
type Record struct {
	members map[string]Value
	names   []string
	// source is the zone the payload was written in.
	source *time.Location
}

func newRecord(members map[string]Value) *Record {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Record{members: members, names: names}
}

// EmptyRecord returns a placeholder record without members, used for
// sections that were not part of the response.
func EmptyRecord() *Record {
	return newRecord(map[string]Value{})
}

// Members returns the sorted names of the available variables.
func (r *Record) Members() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Record) Len() int { return len(r.names) }
func (r *Record) IsEmpty() bool { return len(r.names) == 0 }

// Has reports whether the record carries the named member.
func (r *Record) Has(name string) bool {
	_, ok := r.members[name]
	return ok
}

// Lookup returns the named member and whether it exists.
func (r *Record) Lookup(name string) (Value, bool) {
	v, ok := r.members[name]
	return v, ok
}

// Get returns the named member or an ErrAttributeNotFound error.
func (r *Record) Get(name string) (Value, error) {
	v, ok := r.members[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	return v, nil
}

// Path walks nested groups, e.g. Path("astro", "sun", "rise").
func (r *Record) Path(names ...string) (Value, error) {
	if len(names) == 0 {
		return RecordValue(r), nil
	}
	cur := r
	for i, name := range names {
		v, err := cur.Get(name)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrAttributeNotFound, strings.Join(names[:i+1], "."))
		}
		if i == len(names)-1 {
			return v, nil
		}
		next, ok := v.Record()
		if !ok {
			return Value{}, fmt.Errorf("%w: %q is not a group", ErrTypeMismatch, strings.Join(names[:i+1], "."))
		}
		cur = next
	}
	return Value{}, nil
}

func (r *Record) Float(name string) (float64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float()
	if !ok {
		return 0, mismatch(name, KindNumber, v)
	}
	return f, nil
}

func (r *Record) Text(name string) (string, error) {
	v, err := r.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.Text()
	if !ok {
		return "", mismatch(name, KindString, v)
	}
	return s, nil
}

func (r *Record) Time(name string) (time.Time, error) {
	v, err := r.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.Time()
	if !ok {
		return time.Time{}, mismatch(name, KindTime, v)
	}
	return t, nil
}

// Group returns a nested group of variables such as "wind".
func (r *Record) Group(name string) (*Record, error) {
	v, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	g, ok := v.Record()
	if !ok {
		return nil, mismatch(name, KindRecord, v)
	}
	return g, nil
}

// Date returns the record's "date", falling back to "day".
func (r *Record) Date() (time.Time, bool) {
	for _, key := range []string{KeyDate, KeyDay} {
		if v, ok := r.members[key]; ok {
			if t, ok := v.Time(); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (r *Record) String() string {
	if r.IsEmpty() {
		return "<Empty Record>"
	}
	date := "-"
	if t, ok := r.Date(); ok {
		date = t.Format(time.RFC3339)
	}
	return fmt.Sprintf("<Record (%s) with %d members (%s)>", date, r.Len(), strings.Join(r.names, ", "))
}

func (r *Record) timeOf(key string) (time.Time, bool) {
	v, ok := r.members[key]
	if !ok {
		return time.Time{}, false
	}
	return v.Time()
}

func mismatch(name string, want Kind, got Value) error {
	return fmt.Errorf("%w: %q is %s, not %s", ErrTypeMismatch, name, got.Kind(), want)
}
