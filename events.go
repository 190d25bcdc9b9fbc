package plugkit

// Dispatcher fires lifecycle events to interested listeners. The plugin
// dispatches exactly one event per successful boot; external hosts may
// substitute their own implementation.
type Dispatcher interface {
	Dispatch(event string, args ...any) (any, error)
}

// EventBus dispatches events as action-style hooks on a Registrar, so
// listeners registered through provider AddAction calls fire on dispatch.
type EventBus struct {
	hooks Registrar
}

// NewEventBus creates an EventBus on top of hooks.
func NewEventBus(hooks Registrar) *EventBus {
	return &EventBus{hooks: hooks}
}

// Listen registers a listener for event at default priority, receiving all
// dispatched arguments.
func (b *EventBus) Listen(event string, fn HookCallback) {
	b.hooks.AddAction(event, fn, defaultPriority, ArityAll)
}

// Dispatch fires event to all listeners. The result is always nil; listener
// return values are discarded.
func (b *EventBus) Dispatch(event string, args ...any) (any, error) {
	b.hooks.DoAction(event, args...)
	return nil, nil
}
