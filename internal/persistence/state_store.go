package persistence

import (
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"milktracker/internal/persistence/interfaces"
	"milktracker/internal/providers"
	"milktracker/internal/structures"
)

// FileStateStore is the restart-durable key/value store: a zstd compressed
// JSON object rewritten atomically on every Set.
type FileStateStore struct {
	mu         sync.Mutex
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	values     map[string]json.RawMessage
}

func NewFileStateStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.KVStoreInterface, error) {
	s := &FileStateStore{
		path:       conf.Storage.StateFile,
		compressor: compressor,
		logger:     logger,
		values:     make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load state %s: %w", s.path, err)
	}
	return s, nil
}

func (s *FileStateStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Infof(providers.TypeApp, "No state file at %s, starting empty", s.path)
			return nil
		}
		return err
	}
	raw, err := s.compressor.Decompress(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &s.values)
}

func (s *FileStateStore) Get(key string, dst any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode state %q: %w", key, err)
	}
	return true, nil
}

func (s *FileStateStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.values[key]
	s.values[key] = raw
	if err := s.flush(); err != nil {
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStateStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.values[key]
	if !existed {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

func (s *FileStateStore) flush() error {
	raw, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(raw)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data, 0o600)
}
