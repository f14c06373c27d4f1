package testutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"dmrmonitor/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Contains reports whether any entry at level has a message containing sub.
func (m *MockLogger) Contains(level, sub string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), sub) {
			return true
		}
	}
	return false
}

// MockResolver implements alias.ResolverInterface over plain maps. Missing
// IDs render as decimals, like the real directory.
type MockResolver struct {
	Peers       map[uint32]string
	Subscribers map[uint32]string
	Talkgroups  map[uint32]string
}

func lookup(m map[uint32]string, id uint32) string {
	if v, ok := m[id]; ok {
		return v
	}
	return strconv.FormatUint(uint64(id), 10)
}

func (m *MockResolver) PeerFull(id uint32) string        { return lookup(m.Peers, id) }
func (m *MockResolver) PeerCall(id uint32) string        { return lookup(m.Peers, id) }
func (m *MockResolver) SubscriberShort(id uint32) string { return lookup(m.Subscribers, id) }
func (m *MockResolver) Talkgroup(id uint32) string       { return lookup(m.Talkgroups, id) }

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements persistence.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

var ErrMockSend = errors.New("mock send failure")

// MockSubscriber implements hub.Subscriber and records every message.
type MockSubscriber struct {
	Name     string
	FailSend bool

	mu       sync.Mutex
	Messages []string
	Closed   bool
}

func (m *MockSubscriber) ID() string { return m.Name }

func (m *MockSubscriber) Send(msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSend || m.Closed {
		return ErrMockSend
	}
	m.Messages = append(m.Messages, string(msg))
	return nil
}

func (m *MockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockSubscriber) Received() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Messages...)
}

func (m *MockSubscriber) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}

// MockAppender implements lastheard.Appender in memory.
type MockAppender struct {
	mu    sync.Mutex
	Lines []string
	Err   error
}

func (m *MockAppender) Append(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Lines = append(m.Lines, line)
	return nil
}

func (m *MockAppender) Close() error { return nil }

// MockMetrics implements providers.MetricsProviderInterface and counts the
// domain events tests care about.
type MockMetrics struct {
	mu          sync.Mutex
	Frames      map[string]int
	Dropped     map[string]int
	Broadcasts  map[string]int
	Reconnects  int
	Connected   bool
	Subscribers int
	Persisted   int
}

func (m *MockMetrics) inc(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = make(map[string]int)
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(string, int)                 {}
func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                {}
func (m *MockMetrics) IncCacheMisses()                              {}
func (m *MockMetrics) IncFramesTotal(opcode string)                 { m.inc(&m.Frames, opcode) }
func (m *MockMetrics) IncDropped(reason string)                     { m.inc(&m.Dropped, reason) }
func (m *MockMetrics) IncBroadcasts(tag string)                     { m.inc(&m.Broadcasts, tag) }

func (m *MockMetrics) ObservePersistenceDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) SetLinkConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connected = connected
}

func (m *MockMetrics) IncReconnects() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconnects++
}

func (m *MockMetrics) ReconnectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Reconnects
}

func (m *MockMetrics) SetSubscribers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscribers = count
}

func (m *MockMetrics) DroppedCount(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dropped[reason]
}

func (m *MockMetrics) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Connected
}
