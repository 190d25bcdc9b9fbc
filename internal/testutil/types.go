// Package testutil provides shared fixtures for the plugkit test suite.
package testutil

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   string
	Message string
}

// RecordingLogger records every Log call.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *RecordingLogger) Log(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: message})
}

// Entries returns a copy of the recorded log calls.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contains reports whether any recorded message contains substr.
func (l *RecordingLogger) Contains(substr string) bool {
	for _, e := range l.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// PanickyLogger panics on every Log call.
type PanickyLogger struct{}

func (PanickyLogger) Log(level, message string) {
	panic(fmt.Sprintf("logger exploded: %s %s", level, message))
}

// DispatchedEvent is one recorded Dispatch call.
type DispatchedEvent struct {
	Name string
	Args []any
}

// RecordingDispatcher records every Dispatch call and optionally fails.
type RecordingDispatcher struct {
	Err    error
	events []DispatchedEvent
}

func (d *RecordingDispatcher) Dispatch(event string, args ...any) (any, error) {
	d.events = append(d.events, DispatchedEvent{Name: event, Args: args})
	return nil, d.Err
}

// Events returns the recorded dispatches.
func (d *RecordingDispatcher) Events() []DispatchedEvent {
	return d.events
}

// Fixture service types for auto-wiring tests.

type Settings struct {
	DSN string
}

type Database struct {
	Settings *Settings
	Label    string `optional:"true"`
}

type Cache struct {
	Database *Database
	Size     int `optional:"true"`
}

type Store interface {
	Kind() string
}

type MemoryStore struct{}

func (MemoryStore) Kind() string { return "memory" }
