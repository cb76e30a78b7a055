package weather

import (
	"fmt"
	"time"
)

// Alerts is the series of weather alerts of a forecast, indexed by onset.
type Alerts struct {
	*Series
}

// EmptyAlerts returns a placeholder for a response without alerts.
func EmptyAlerts(loc *time.Location) *Alerts {
	return &Alerts{Series: EmptySeries(SectionAlerts, loc)}
}

// ActiveNow returns the alerts active at the current time of the series
// clock. The result changes as real time passes.
func (a *Alerts) ActiveNow() []*Record {
	return a.active(a.clock.Now())
}

// ActiveAt returns, in collection order, the alerts with
// onset <= at <= expires. at may be a Text, Wall or Instant index.
// An alert without expires stays active once it has started.
func (a *Alerts) ActiveAt(at Index) ([]*Record, error) {
	if at.kind == indexOffset {
		return nil, fmt.Errorf("%w: offset %s cannot select active alerts", ErrUnsupportedIndex, at)
	}
	t, err := a.instant(at)
	if err != nil {
		return nil, err
	}
	return a.active(t), nil
}

func (a *Alerts) active(at time.Time) []*Record {
	out := []*Record{}
	for _, r := range a.records {
		onset, ok := r.timeOf(KeyOnset)
		if !ok || onset.After(at) {
			continue
		}
		if expires, ok := r.timeOf(KeyExpires); ok && expires.Before(at) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (a *Alerts) String() string {
	if a.Len() == 0 {
		return "<Empty Alerts>"
	}
	dates := a.DateStrings()
	return fmt.Sprintf("<Alerts with %d alerts from %s to %s>", a.Len(), dates[0], dates[len(dates)-1])
}
