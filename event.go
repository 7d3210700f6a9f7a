package caliper

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType is the "type" value written for every event.
const EventType = "Event"

// Event records an action performed by an actor upon an object at a point
// in time. Events are immutable; build them with EventBuilder.
type Event struct {
	context    Context
	id         string
	actor      Entity
	action     Action
	object     Entity
	target     Entity
	generated  Entity
	eventTime  time.Time
	edApp      Entity
	group      Entity
	extensions map[string]any
}

func (e *Event) Context() Context     { return e.context }
func (e *Event) ID() string           { return e.id }
func (e *Event) Type() string         { return EventType }
func (e *Event) Actor() Entity        { return e.actor }
func (e *Event) Action() Action       { return e.action }
func (e *Event) Object() Entity       { return e.object }
func (e *Event) Target() Entity       { return e.target }
func (e *Event) Generated() Entity    { return e.generated }
func (e *Event) EventTime() time.Time { return e.eventTime }
func (e *Event) EdApp() Entity        { return e.edApp }
func (e *Event) Group() Entity        { return e.group }

// Extensions returns a deep copy of the extensions payload.
func (e *Event) Extensions() map[string]any {
	if e.extensions == nil {
		return nil
	}
	return cloneValue(e.extensions).(map[string]any)
}

// properties lists the event fields in output order.
func (e *Event) properties() []Property {
	return []Property{
		{Name: "@context", Value: string(e.context)},
		{Name: "id", Value: e.id},
		{Name: "type", Value: EventType},
		{Name: "actor", Value: e.actor},
		{Name: "action", Value: e.action},
		{Name: "object", Value: e.object},
		{Name: "target", Value: e.target},
		{Name: "generated", Value: e.generated},
		{Name: "eventTime", Value: e.eventTime},
		{Name: "edApp", Value: e.edApp},
		{Name: "group", Value: e.group},
		{Name: "extensions", Value: e.extensions},
	}
}

// MarshalJSON serializes the event with the default serializer.
func (e *Event) MarshalJSON() ([]byte, error) {
	return defaultSerializer.Marshal(e)
}

// NewEventID returns a fresh "urn:uuid:" event identifier.
func NewEventID() string {
	return "urn:uuid:" + uuid.NewString()
}

// EventBuilder assembles an Event. The zero value is ready to use.
type EventBuilder struct {
	ev Event
}

// NewEventBuilder returns an empty builder.
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{}
}

func (b *EventBuilder) Context(c Context) *EventBuilder     { b.ev.context = c; return b }
func (b *EventBuilder) ID(id string) *EventBuilder          { b.ev.id = id; return b }
func (b *EventBuilder) Actor(actor Entity) *EventBuilder    { b.ev.actor = actor; return b }
func (b *EventBuilder) Action(action Action) *EventBuilder  { b.ev.action = action; return b }
func (b *EventBuilder) Object(object Entity) *EventBuilder  { b.ev.object = object; return b }
func (b *EventBuilder) Target(target Entity) *EventBuilder  { b.ev.target = target; return b }
func (b *EventBuilder) Generated(gen Entity) *EventBuilder  { b.ev.generated = gen; return b }
func (b *EventBuilder) EventTime(t time.Time) *EventBuilder { b.ev.eventTime = t; return b }
func (b *EventBuilder) EdApp(app Entity) *EventBuilder      { b.ev.edApp = app; return b }
func (b *EventBuilder) Group(group Entity) *EventBuilder    { b.ev.group = group; return b }
func (b *EventBuilder) Extensions(x map[string]any) *EventBuilder {
	b.ev.extensions = x
	return b
}

// Build checks that actor, action, object and eventTime are present and
// returns the event. A missing id is filled with NewEventID and a missing
// context with DefaultContext. The extensions payload is deep-copied.
func (b *EventBuilder) Build() (*Event, error) {
	switch {
	case isNilEntity(b.ev.actor):
		return nil, fmt.Errorf("%w: actor", ErrMissingField)
	case b.ev.action == ActionUnset:
		return nil, fmt.Errorf("%w: action", ErrMissingField)
	case isNilEntity(b.ev.object):
		return nil, fmt.Errorf("%w: object", ErrMissingField)
	case b.ev.eventTime.IsZero():
		return nil, fmt.Errorf("%w: eventTime", ErrMissingField)
	}

	ev := b.ev
	if ev.id == "" {
		ev.id = NewEventID()
	}
	if ev.context == "" {
		ev.context = DefaultContext
	}
	if ev.extensions != nil {
		ev.extensions = cloneValue(ev.extensions).(map[string]any)
	}
	return &ev, nil
}

// cloneValue copies the map and slice containers of an extensions payload.
// Leaf values, entities included, are shared.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
