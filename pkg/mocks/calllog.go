// Package mocks provides mock implementations for testing.
package mocks

import "sync"

// Call records one host-bridge invocation.
type Call struct {
	Method     string
	DeviceID   string
	Width      int
	Height     int
	FullHeight bool
}

// CallLog collects calls across several mocks so tests can assert ordering.
type CallLog struct {
	mu    sync.Mutex
	calls []Call
}

// NewCallLog creates an empty CallLog.
func NewCallLog() *CallLog {
	return &CallLog{}
}

func (l *CallLog) add(c Call) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

// Calls returns a copy of the recorded calls.
func (l *CallLog) Calls() []Call {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Methods returns the recorded method names in order.
func (l *CallLog) Methods() []string {
	calls := l.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}
