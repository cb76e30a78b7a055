package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"
)

// statisticsPrefix marks daily statistics columns merged into hourly rows.
const statisticsPrefix = "statistics_"

// Row is one flattened timestep. Index holds the temporal member; it is the
// zero time for tables without an index.
type Row struct {
	Index  time.Time
	Values map[string]Value
}

// Table is the flat, column-oriented export of records. Nested groups
// become "<group>_<member>" columns; the temporal member becomes the index.
type Table struct {
	IndexName string
	Columns   []string
	Rows      []Row
}

// Flatten returns the record as a flat mapping, joining nested names with "_"
// (wind.angle becomes wind_angle, all_day.wind.angle becomes all_day_wind_angle).
func (r *Record) Flatten() map[string]Value {
	out := make(map[string]Value)
	flattenInto(out, "", r)
	return out
}

func flattenInto(out map[string]Value, prefix string, r *Record) {
	for _, name := range r.names {
		v := r.members[name]
		if g, ok := v.Record(); ok {
			flattenInto(out, prefix+name+"_", g)
			continue
		}
		out[prefix+name] = v
	}
}

// Table exports the record as a single-row table.
func (r *Record) Table() *Table {
	index := ""
	for _, key := range []string{KeyDate, KeyDay} {
		if _, ok := r.timeOf(key); ok {
			index = key
			break
		}
	}
	return tableOf([]*Record{r}, index)
}

// Table exports every timestep as a row, indexed by the temporal key.
// Alerts carry no index; onset and expires stay ordinary columns.
func (s *Series) Table() *Table {
	index := s.key
	if s.section == SectionAlerts {
		index = ""
	}
	return tableOf(s.records, index)
}

// Table exports the hourly data. With mergeStatistics, each hour row also
// carries its day's statistics as "statistics_*" columns. Statistics are
// daily aggregates of the payload zone, so hours are matched on their
// calendar day in that zone.
func (tm *TimeMachine) Table(mergeStatistics bool) *Table {
	t := tm.Data.Table()
	if !mergeStatistics || tm.Statistics.Len() == 0 {
		return t
	}

	byDay := make(map[string]map[string]Value, tm.Statistics.Len())
	for _, rec := range tm.Statistics.records {
		day, ok := rec.timeOf(KeyDay)
		if !ok {
			continue
		}
		flat := rec.Flatten()
		delete(flat, KeyDay)
		byDay[dayStamp(day.In(tm.loc))] = flat
	}

	columns := make(map[string]bool)
	for _, c := range t.Columns {
		columns[c] = true
	}
	for i := range t.Rows {
		zone := tm.Data.records[i].source
		if zone == nil {
			zone = tm.loc
		}
		stats, ok := byDay[dayStamp(t.Rows[i].Index.In(zone))]
		if !ok {
			continue
		}
		for name, v := range stats {
			t.Rows[i].Values[statisticsPrefix+name] = v
			columns[statisticsPrefix+name] = true
		}
	}
	t.Columns = sortedKeys(columns)
	return t
}

func tableOf(records []*Record, index string) *Table {
	t := &Table{IndexName: index, Rows: make([]Row, 0, len(records))}
	columns := make(map[string]bool)
	for _, rec := range records {
		flat := rec.Flatten()
		var row Row
		if index != "" {
			if v, ok := flat[index]; ok {
				row.Index, _ = v.Time()
				delete(flat, index)
			}
		}
		for name := range flat {
			columns[name] = true
		}
		row.Values = flat
		t.Rows = append(t.Rows, row)
	}
	t.Columns = sortedKeys(columns)
	return t
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether any row carries the column.
func (t *Table) HasColumn(name string) bool {
	i := sort.SearchStrings(t.Columns, name)
	return i < len(t.Columns) && t.Columns[i] == name
}

// Column returns one column; rows without the member yield null values.
func (t *Table) Column(name string) ([]Value, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: column %q", ErrAttributeNotFound, name)
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values[name]
	}
	return out, nil
}

// Index returns the index value of every row.
func (t *Table) Index() []time.Time {
	out := make([]time.Time, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Index
	}
	return out
}

// Maps converts the rows to plain maps, e.g. for JSON encoding. The index
// is stored under its column name.
func (t *Table) Maps() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]any, len(row.Values)+1)
		for name, v := range row.Values {
			m[name] = v.Interface()
		}
		if t.IndexName != "" {
			m[t.IndexName] = row.Index
		}
		out[i] = m
	}
	return out
}

// WriteCSV writes the table with the index as the first column. Nulls and
// missing members are written as empty cells.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	if t.IndexName != "" {
		header = append(header, t.IndexName)
	}
	header = append(header, t.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		rec := make([]string, 0, len(header))
		if t.IndexName != "" {
			rec = append(rec, formatIndex(t.IndexName, row.Index))
		}
		for _, name := range t.Columns {
			v := row.Values[name]
			if v.IsNull() {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, v.String())
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatIndex(name string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if name == KeyDay {
		return t.Format(LayoutDay)
	}
	return t.Format(time.RFC3339)
}
