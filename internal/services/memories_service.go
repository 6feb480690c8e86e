package services

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"milktracker/internal/models"
	"milktracker/internal/persistence/interfaces"
	"milktracker/internal/providers"
	"milktracker/internal/structures"
	"milktracker/internal/timeutil"
)

type MemoriesServiceInterface interface {
	Memories() []models.MemoryRow
	AddMemory(date, description string) error
	EditMemory(index int, date, description string) error
	RemoveMemory(index int) error
	Version() uint64
	Restore() error
}

// MemoriesService persists the journal after every successful mutation.
type MemoriesService struct {
	mu      sync.Mutex
	logger  providers.Logger
	repo    interfaces.MemoriesRepositoryInterface
	table   *models.MemoriesTable
	version atomic.Uint64
}

func NewMemoriesService(conf *structures.Config, logger providers.Logger, repo interfaces.MemoriesRepositoryInterface) (MemoriesServiceInterface, error) {
	birthday, err := time.ParseInLocation(timeutil.DateLayout, conf.Tracker.Birthday, time.Local)
	if err != nil {
		return nil, fmt.Errorf("tracker.birthday: %w", err)
	}
	return &MemoriesService{
		logger: logger,
		repo:   repo,
		table:  models.NewMemoriesTable(birthday),
	}, nil
}

func (s *MemoriesService) Memories() []models.MemoryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Rows()
}

func (s *MemoriesService) AddMemory(date, description string) error {
	memory, err := models.NewMemory(date, description)
	if err != nil {
		return err
	}
	return s.mutate("added", func(t *models.MemoriesTable) error {
		t.Add(*memory)
		return nil
	})
}

func (s *MemoriesService) EditMemory(index int, date, description string) error {
	memory, err := models.NewMemory(date, description)
	if err != nil {
		return err
	}
	return s.mutate("edited", func(t *models.MemoriesTable) error {
		return t.Edit(index, *memory)
	})
}

func (s *MemoriesService) RemoveMemory(index int) error {
	return s.mutate("removed", func(t *models.MemoriesTable) error {
		return t.Remove(index)
	})
}

func (s *MemoriesService) mutate(verb string, change func(*models.MemoriesTable) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.table.Clone()
	if err := change(next); err != nil {
		return err
	}
	if err := s.repo.SaveAll(next.Memories()); err != nil {
		return fmt.Errorf("save memories: %w", err)
	}
	s.table = next
	s.version.Inc()
	s.logger.Infof(providers.TypePost, "Memory %s, %d in journal", verb, len(next.Memories()))
	return nil
}

func (s *MemoriesService) Version() uint64 {
	return s.version.Load()
}

func (s *MemoriesService) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memories, err := s.repo.LoadAll()
	if err != nil {
		return fmt.Errorf("load memories: %w", err)
	}
	table := s.table.Clone()
	if err := table.Load(memories); err != nil {
		return fmt.Errorf("load memories: %w", err)
	}
	s.table = table
	s.version.Inc()
	s.logger.Infof(providers.TypeApp, "Restored %d memories", len(memories))
	return nil
}
