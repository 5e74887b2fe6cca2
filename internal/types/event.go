package types

import (
	"time"
)

// Data is custom data published by actors on the message bus.
type Data interface {
	// DataType names the data class, used as the subscription key.
	DataType() string
	// Timestamp is when the data event occurred.
	Timestamp() time.Time
}

// TimeEvent is delivered to timer and alert callbacks.
type TimeEvent struct {
	Name    string
	EventID string
	TsEvent time.Time
	TsInit  time.Time
}

// Signal is a named value published by an actor.
type Signal struct {
	// Name is the name of the signal, e.g. "signal_count_bars"
	Name string
	// Value is the published value. Numbers, strings and booleans are expected.
	Value any
	// TsEvent is the time of the signal
	TsEvent time.Time
}

// DataType implements Data.
func (s Signal) DataType() string {
	return "Signal" + s.Name
}

// Timestamp implements Data.
func (s Signal) Timestamp() time.Time {
	return s.TsEvent
}
