package plugkit

import (
	"reflect"
	"sort"
)

// HookCallback is a prioritized callback registered under a hook name.
// Action-style callbacks may return nil; filter-style callbacks receive the
// threaded value as their first argument and must return the (possibly
// replaced) value.
type HookCallback func(args ...any) any

// ArityAll passes every dispatched argument to a callback instead of
// capping at a fixed arity.
const ArityAll = -1

// Registrar accepts prioritized callback registrations keyed by name.
// Priorities sort ascending; registrations with equal priority fire in
// registration order. It is the host-platform seam: a HookBus serves
// in-process use, hosts with their own hook system supply an adapter.
type Registrar interface {
	// AddAction registers a fire-and-forget callback. Its return value is
	// ignored. Arity caps how many dispatch arguments the callback sees;
	// ArityAll passes everything.
	AddAction(name string, fn HookCallback, priority, arity int)

	// AddFilter registers a value-threading callback. The threaded value is
	// passed as the first argument and counts toward arity.
	AddFilter(name string, fn HookCallback, priority, arity int)

	// DoAction fires all callbacks registered under name, lowest priority
	// first. Return values are discarded.
	DoAction(name string, args ...any)

	// ApplyFilters threads value through all filter callbacks registered
	// under name, lowest priority first, and returns the final value.
	// Action-style callbacks registered under the same name fire but do not
	// replace the value.
	ApplyFilters(name string, value any, args ...any) any

	// Remove deregisters a callback previously added under name at the
	// given priority. The callback is matched by function identity; actions
	// and filters are both eligible. Removing a callback that was never
	// registered is a no-op.
	Remove(name string, fn HookCallback, priority int)

	// Has reports whether any callback is registered under name.
	Has(name string) bool
}

// HookBus is the in-memory Registrar.
type HookBus struct {
	hooks map[string][]*hookEntry
}

type hookEntry struct {
	fn       HookCallback
	priority int
	arity    int
	filter   bool
}

// NewHookBus creates an empty HookBus.
func NewHookBus() *HookBus {
	return &HookBus{hooks: make(map[string][]*hookEntry)}
}

func (b *HookBus) add(name string, e *hookEntry) {
	entries := append(b.hooks[name], e)
	// Stable sort keeps registration order for equal priorities.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	b.hooks[name] = entries
}

func (b *HookBus) AddAction(name string, fn HookCallback, priority, arity int) {
	b.add(name, &hookEntry{fn: fn, priority: priority, arity: arity})
}

func (b *HookBus) AddFilter(name string, fn HookCallback, priority, arity int) {
	b.add(name, &hookEntry{fn: fn, priority: priority, arity: arity, filter: true})
}

func (b *HookBus) DoAction(name string, args ...any) {
	for _, e := range b.hooks[name] {
		e.fn(capArgs(args, e.arity)...)
	}
}

func (b *HookBus) ApplyFilters(name string, value any, args ...any) any {
	for _, e := range b.hooks[name] {
		callArgs := capArgs(append([]any{value}, args...), e.arity)
		ret := e.fn(callArgs...)
		if e.filter {
			value = ret
		}
	}
	return value
}

func (b *HookBus) Remove(name string, fn HookCallback, priority int) {
	if fn == nil {
		return
	}
	ptr := reflect.ValueOf(fn).Pointer()

	entries := b.hooks[name]
	kept := entries[:0]
	for _, e := range entries {
		if e.priority == priority && reflect.ValueOf(e.fn).Pointer() == ptr {
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) == 0 {
		delete(b.hooks, name)
		return
	}
	b.hooks[name] = kept
}

func (b *HookBus) Has(name string) bool {
	return len(b.hooks[name]) > 0
}

func capArgs(args []any, arity int) []any {
	if arity >= 0 && len(args) > arity {
		return args[:arity]
	}
	return args
}
