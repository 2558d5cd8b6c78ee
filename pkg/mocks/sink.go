package mocks

import (
	"sync"

	"github.com/user/devshot/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Screenshots map[string][]byte
	Frames      map[string]map[int][]byte
	RunJSON     []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:     enabled,
		Screenshots: make(map[string][]byte),
		Frames:      make(map[string]map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveScreenshot(deviceID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Screenshots[deviceID] = data
	return nil
}

func (m *DebugSink) SaveFrame(deviceID string, index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Frames[deviceID] == nil {
		m.Frames[deviceID] = make(map[int][]byte)
	}
	m.Frames[deviceID][index] = data
	return nil
}

func (m *DebugSink) SaveRunJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunJSON = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
