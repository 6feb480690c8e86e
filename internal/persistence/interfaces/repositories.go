package interfaces

import "milktracker/internal/models"

// MealsRepositoryInterface stores the base fields of the meals table in row order.
type MealsRepositoryInterface interface {
	LoadAll() ([]models.MealRecord, error)
	SaveAll(records []models.MealRecord) error
}

type MemoriesRepositoryInterface interface {
	LoadAll() ([]models.Memory, error)
	SaveAll(memories []models.Memory) error
}

// KVStoreInterface is the restart-durable store. Get reports false and leaves
// dst untouched when key is absent.
type KVStoreInterface interface {
	Get(key string, dst any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
}

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}
