package conditions

import "time"

// Context is the capability surface conditions evaluate against. It replaces
// type-erased downcasting with typed accessors: event conditions read the
// event type, expression conditions read the field environment, and timer
// conditions read the clock alongside the trigger's last firing time.
type Context interface {
	// EventType returns the type of the inbound event, or "" when the
	// context is not event-driven (e.g. a scheduler tick).
	EventType() string
	// Field returns a named payload value and whether it is present.
	Field(name string) (interface{}, bool)
	// Env returns the full field environment used for expression evaluation.
	Env() map[string]interface{}
	// Now returns the evaluation clock time.
	Now() time.Time
	// LastFired returns when the trigger last fired, if ever.
	LastFired() (time.Time, bool)
}

// EventContext is the standard Context implementation carrying an inbound
// event plus evaluation bookkeeping.
type EventContext struct {
	eventType string
	fields    map[string]interface{}
	now       time.Time
	lastFired time.Time
	hasFired  bool
}

// NewEventContext builds a context for an inbound event. The clock defaults
// to the wall clock.
func NewEventContext(eventType string, fields map[string]interface{}) *EventContext {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	return &EventContext{
		eventType: eventType,
		fields:    fields,
		now:       time.Now(),
	}
}

// NewTickContext builds a context for a scheduler tick with no event payload.
func NewTickContext(now time.Time) *EventContext {
	return &EventContext{
		fields: make(map[string]interface{}),
		now:    now,
	}
}

// WithClock overrides the evaluation clock.
func (c *EventContext) WithClock(now time.Time) *EventContext {
	c.now = now
	return c
}

// WithLastFired records the trigger's last firing time.
func (c *EventContext) WithLastFired(t time.Time) *EventContext {
	c.lastFired = t
	c.hasFired = true
	return c
}

func (c *EventContext) EventType() string {
	return c.eventType
}

func (c *EventContext) Field(name string) (interface{}, bool) {
	v, ok := c.fields[name]
	return v, ok
}

func (c *EventContext) Env() map[string]interface{} {
	return c.fields
}

func (c *EventContext) Now() time.Time {
	return c.now
}

func (c *EventContext) LastFired() (time.Time, bool) {
	return c.lastFired, c.hasFired
}
