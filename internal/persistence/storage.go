package persistence

import (
	"fmt"

	"milktracker/internal/persistence/interfaces"
	"milktracker/internal/providers"
	"milktracker/internal/structures"
)

// Storage bundles the repositories of the configured driver.
type Storage struct {
	Meals    interfaces.MealsRepositoryInterface
	Memories interfaces.MemoriesRepositoryInterface
	close    func() error
}

func NewStorage(conf *structures.Config, logger providers.Logger) (*Storage, error) {
	switch conf.Storage.Driver {
	case "sqlite":
		db, err := OpenSqlite(conf.Storage.SqlitePath, conf.Debug)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		logger.Infof(providers.TypeApp, "Using sqlite storage %s", conf.Storage.SqlitePath)
		return &Storage{
			Meals:    NewSqliteMealsRepository(db),
			Memories: NewSqliteMemoriesRepository(db),
			close:    sqlDB.Close,
		}, nil
	case "csv", "":
		logger.Infof(providers.TypeApp, "Using csv storage %s, %s", conf.Storage.MealsFile, conf.Storage.MemoriesFile)
		return &Storage{
			Meals:    NewCsvMealsRepository(conf.Storage.MealsFile),
			Memories: NewCsvMemoriesRepository(conf.Storage.MemoriesFile),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
