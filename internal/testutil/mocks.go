package testutil

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"milktracker/internal/models"
	"milktracker/internal/providers"
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

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockClock is a settable timeutil.Clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockMealsRepository implements interfaces.MealsRepositoryInterface in memory.
type MockMealsRepository struct {
	mu        sync.Mutex
	Records   []models.MealRecord
	LoadErr   error
	SaveErr   error
	SaveCalls int
	// SaveHook runs inside SaveAll before the records are stored.
	SaveHook func(records []models.MealRecord)
}

func (m *MockMealsRepository) LoadAll() ([]models.MealRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]models.MealRecord(nil), m.Records...), nil
}

func (m *MockMealsRepository) SaveAll(records []models.MealRecord) error {
	if m.SaveHook != nil {
		m.SaveHook(records)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Records = append([]models.MealRecord(nil), records...)
	return nil
}

func (m *MockMealsRepository) Saved() []models.MealRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.MealRecord(nil), m.Records...)
}

// MockMemoriesRepository implements interfaces.MemoriesRepositoryInterface in memory.
type MockMemoriesRepository struct {
	mu       sync.Mutex
	Memories []models.Memory
	LoadErr  error
	SaveErr  error
}

func (m *MockMemoriesRepository) LoadAll() ([]models.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]models.Memory(nil), m.Memories...), nil
}

func (m *MockMemoriesRepository) SaveAll(memories []models.Memory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Memories = append([]models.Memory(nil), memories...)
	return nil
}

// MockKVStore implements interfaces.KVStoreInterface with JSON encoded values,
// like the file store.
type MockKVStore struct {
	mu     sync.Mutex
	Values map[string][]byte
	SetErr error
	DelErr error
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Values: make(map[string][]byte)}
}

func (m *MockKVStore) Get(key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *MockKVStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.Values[key] = raw
	return nil
}

func (m *MockKVStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DelErr != nil {
		return m.DelErr
	}
	delete(m.Values, key)
	return nil
}

func (m *MockKVStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Values[key]
	return ok
}

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
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       int
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// identity
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

func (m *MockCompressor) Close() { m.Closed++ }

// MockMetrics implements providers.MetricsProviderInterface and counts action errors.
type MockMetrics struct {
	mu           sync.Mutex
	ActionErrors map[string]int
	Actions      map[string]int
	Persisted    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{ActionErrors: map[string]int{}, Actions: map[string]int{}}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) IncRateLimited()                                  {}

func (m *MockMetrics) ObserveActionDuration(action string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Actions[action]++
}

func (m *MockMetrics) IncActionErrors(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActionErrors[action]++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
