package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDraw     EventType = "draw"
	EventComplete EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DrawEvent fires once per rewrite, after the step is appended to the log.
type DrawEvent struct {
	EventBase
	Step      Step `json:"step"`
	Remaining int  `json:"remaining"` // positions still unresolved
}

// CompleteEvent fires once per derivation, after the final tree is assembled.
type CompleteEvent struct {
	EventBase
	Length       int `json:"length"`
	AlphabetSize int `json:"alphabet_size"`
}

// LifecycleHooks defines callbacks for engine observability. Hosts use them
// to feed logging, metrics, or step streaming without coupling the engine to
// any transport.
type LifecycleHooks struct {
	OnDraw     func(context.Context, *DrawEvent)
	OnComplete func(context.Context, *CompleteEvent)
}
