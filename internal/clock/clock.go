// Package clock provides the deterministic clock driving timers and alerts in a backtest.
package clock

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// TimeEventCallback receives timer and alert events.
type TimeEventCallback func(event types.TimeEvent)

// TimeEventHandler pairs an event with the callback that should receive it.
type TimeEventHandler struct {
	Event    types.TimeEvent
	Callback TimeEventCallback
}

// Handle invokes the callback with the event.
func (h TimeEventHandler) Handle() {
	h.Callback(h.Event)
}

// Clock is the time source exposed to actors and strategies.
type Clock interface {
	UtcNow() time.Time
	SetTimer(name string, interval time.Duration, start, stop optional.Option[time.Time], callback TimeEventCallback) error
	SetTimeAlert(name string, at time.Time, callback TimeEventCallback) error
	CancelTimer(name string)
	CancelTimers()
	TimerNames() []string
	NextTime(name string) (time.Time, bool)
}

type timer struct {
	name     string
	interval time.Duration
	next     time.Time
	stop     optional.Option[time.Time]
	callback TimeEventCallback
	seq      int
	alert    bool
}

// TestClock only moves when the engine advances it.
type TestClock struct {
	now    time.Time
	timers map[string]*timer
	seq    int
}

// NewTestClock creates a clock at the zero time.
func NewTestClock() *TestClock {
	return &TestClock{timers: make(map[string]*timer)}
}

// UtcNow returns the current clock time.
func (c *TestClock) UtcNow() time.Time {
	return c.now
}

// SetTime moves the clock without firing timers.
func (c *TestClock) SetTime(t time.Time) {
	c.now = t.UTC()
}

// SetTimer registers a recurring timer firing every interval, first at start+interval.
// A zero start means now. When stop is set the timer fires for the last time at or before stop.
func (c *TestClock) SetTimer(name string, interval time.Duration, start, stop optional.Option[time.Time], callback TimeEventCallback) error {
	if err := c.validate(name, callback); err != nil {
		return err
	}

	if interval <= 0 {
		return errors.Newf(errors.ErrCodeInvalidTimer, "timer %s interval must be positive, was %s", name, interval)
	}

	startTime := c.now
	if start.IsSome() && !start.Unwrap().IsZero() {
		startTime = start.Unwrap().UTC()
	}

	next := startTime.Add(interval)
	if stop.IsSome() && next.After(stop.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidTimer, "timer %s stops before it first fires at %s", name, next.Format(time.RFC3339))
	}

	c.add(&timer{name: name, interval: interval, next: next, stop: stop, callback: callback})

	return nil
}

// SetTimeAlert registers a one time alert. Alerts in the past fire at the next advance.
func (c *TestClock) SetTimeAlert(name string, at time.Time, callback TimeEventCallback) error {
	if err := c.validate(name, callback); err != nil {
		return err
	}

	c.add(&timer{name: name, next: at.UTC(), callback: callback, alert: true})

	return nil
}

func (c *TestClock) validate(name string, callback TimeEventCallback) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidTimer, "timer name cannot be empty")
	}

	if callback == nil {
		return errors.Newf(errors.ErrCodeInvalidTimer, "timer %s requires a callback", name)
	}

	if _, exists := c.timers[name]; exists {
		return errors.Newf(errors.ErrCodeDuplicateTimer, "timer %s already exists", name)
	}

	return nil
}

func (c *TestClock) add(t *timer) {
	c.seq++
	t.seq = c.seq
	c.timers[t.name] = t
}

// CancelTimer removes a timer or alert. Unknown names are ignored.
func (c *TestClock) CancelTimer(name string) {
	delete(c.timers, name)
}

// CancelTimers removes every timer and alert.
func (c *TestClock) CancelTimers() {
	c.timers = make(map[string]*timer)
}

// TimerNames returns the active timer and alert names sorted alphabetically.
func (c *TestClock) TimerNames() []string {
	names := make([]string, 0, len(c.timers))
	for name := range c.timers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// TimerCount returns the number of active timers and alerts.
func (c *TestClock) TimerCount() int {
	return len(c.timers)
}

// NextTime returns the next fire time of a timer or alert.
func (c *TestClock) NextTime(name string) (time.Time, bool) {
	t, ok := c.timers[name]
	if !ok {
		return time.Time{}, false
	}

	return t.next, true
}

// AdvanceTime moves the clock to `to` and returns the events due up to and including it,
// ordered by time and then by registration order. Moving backwards returns nothing.
func (c *TestClock) AdvanceTime(to time.Time) []TimeEventHandler {
	to = to.UTC()
	if to.Before(c.now) {
		return nil
	}

	type due struct {
		handler TimeEventHandler
		seq     int
	}

	var events []due

	for name, t := range c.timers {
		for !t.next.After(to) {
			if t.stop.IsSome() && t.next.After(t.stop.Unwrap()) {
				break
			}

			events = append(events, due{
				handler: TimeEventHandler{
					Event:    types.TimeEvent{Name: t.name, EventID: uuid.NewString(), TsEvent: t.next, TsInit: t.next},
					Callback: t.callback,
				},
				seq: t.seq,
			})

			if t.alert {
				break
			}

			t.next = t.next.Add(t.interval)
		}

		if t.alert && !t.next.After(to) {
			delete(c.timers, name)
		} else if t.stop.IsSome() && t.next.After(t.stop.Unwrap()) {
			delete(c.timers, name)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].handler.Event.TsEvent.Equal(events[j].handler.Event.TsEvent) {
			return events[i].handler.Event.TsEvent.Before(events[j].handler.Event.TsEvent)
		}

		return events[i].seq < events[j].seq
	})

	out := make([]TimeEventHandler, len(events))
	for i, e := range events {
		out[i] = e.handler
	}

	c.now = to

	return out
}
