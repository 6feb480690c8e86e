package persistence

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"milktracker/internal/models"
	"milktracker/internal/persistence/interfaces"
)

type mealEntity struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Date      string `gorm:"column:date;not null"`
	StartTime string `gorm:"column:start_time;not null"`
	EndTime   string `gorm:"column:end_time;not null"`
}

func (mealEntity) TableName() string { return "meals" }

type memoryEntity struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Date        string `gorm:"column:date;not null"`
	Description string `gorm:"column:description;not null"`
}

func (memoryEntity) TableName() string { return "memories" }

// OpenSqlite opens the database at path and migrates the meals and memories tables.
func OpenSqlite(path string, debug bool) (*gorm.DB, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&mealEntity{}, &memoryEntity{}); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}
	return db, nil
}

// SqliteMealsRepository keeps row order through the autoincrement id. SaveAll
// replaces the whole table in one transaction.
type SqliteMealsRepository struct {
	db *gorm.DB
}

func NewSqliteMealsRepository(db *gorm.DB) interfaces.MealsRepositoryInterface {
	return &SqliteMealsRepository{db: db}
}

func (r *SqliteMealsRepository) LoadAll() ([]models.MealRecord, error) {
	var entities []mealEntity
	if err := r.db.Order("id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}
	records := make([]models.MealRecord, 0, len(entities))
	for _, e := range entities {
		records = append(records, models.MealRecord{Date: e.Date, StartTime: e.StartTime, EndTime: e.EndTime})
	}
	return records, nil
}

func (r *SqliteMealsRepository) SaveAll(records []models.MealRecord) error {
	entities := make([]mealEntity, 0, len(records))
	for _, rec := range records {
		entities = append(entities, mealEntity{Date: rec.Date, StartTime: rec.StartTime, EndTime: rec.EndTime})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&mealEntity{}).Error; err != nil {
			return fmt.Errorf("failed to clear meals: %w", err)
		}
		if len(entities) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(entities, 200).Error; err != nil {
			return fmt.Errorf("failed to save meals: %w", err)
		}
		return nil
	})
}

type SqliteMemoriesRepository struct {
	db *gorm.DB
}

func NewSqliteMemoriesRepository(db *gorm.DB) interfaces.MemoriesRepositoryInterface {
	return &SqliteMemoriesRepository{db: db}
}

func (r *SqliteMemoriesRepository) LoadAll() ([]models.Memory, error) {
	var entities []memoryEntity
	if err := r.db.Order("id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}
	memories := make([]models.Memory, 0, len(entities))
	for _, e := range entities {
		memories = append(memories, models.Memory{Date: e.Date, Description: e.Description})
	}
	return memories, nil
}

func (r *SqliteMemoriesRepository) SaveAll(memories []models.Memory) error {
	entities := make([]memoryEntity, 0, len(memories))
	for _, m := range memories {
		entities = append(entities, memoryEntity{Date: m.Date, Description: m.Description})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&memoryEntity{}).Error; err != nil {
			return fmt.Errorf("failed to clear memories: %w", err)
		}
		if len(entities) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(entities, 200).Error; err != nil {
			return fmt.Errorf("failed to save memories: %w", err)
		}
		return nil
	})
}
