package persistence

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"milktracker/internal/models"
	"milktracker/internal/persistence/interfaces"
)

var (
	mealsHeader    = []string{"date", "start_time", "end_time"}
	memoriesHeader = []string{"date", "description"}
)

// readCSV returns the rows of path as maps keyed by header name.
func readCSV(path string, required []string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, models.ErrNotFound)
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row := make(map[string]string, len(required))
		for _, name := range required {
			if i := columns[name]; i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes(), 0o644)
}

type CsvMealsRepository struct {
	path string
}

func NewCsvMealsRepository(path string) interfaces.MealsRepositoryInterface {
	return &CsvMealsRepository{path: path}
}

func (r *CsvMealsRepository) LoadAll() ([]models.MealRecord, error) {
	rows, err := readCSV(r.path, mealsHeader)
	if err != nil {
		return nil, err
	}
	records := make([]models.MealRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.MealRecord{
			Date:      row["date"],
			StartTime: row["start_time"],
			EndTime:   row["end_time"],
		})
	}
	return records, nil
}

func (r *CsvMealsRepository) SaveAll(records []models.MealRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Date, rec.StartTime, rec.EndTime})
	}
	if err := writeCSV(r.path, mealsHeader, rows); err != nil {
		return fmt.Errorf("save meals to %s: %w", r.path, err)
	}
	return nil
}

type CsvMemoriesRepository struct {
	path string
}

func NewCsvMemoriesRepository(path string) interfaces.MemoriesRepositoryInterface {
	return &CsvMemoriesRepository{path: path}
}

func (r *CsvMemoriesRepository) LoadAll() ([]models.Memory, error) {
	rows, err := readCSV(r.path, memoriesHeader)
	if err != nil {
		return nil, err
	}
	memories := make([]models.Memory, 0, len(rows))
	for _, row := range rows {
		memories = append(memories, models.Memory{Date: row["date"], Description: row["description"]})
	}
	return memories, nil
}

func (r *CsvMemoriesRepository) SaveAll(memories []models.Memory) error {
	rows := make([][]string, 0, len(memories))
	for _, m := range memories {
		rows = append(rows, []string{m.Date, m.Description})
	}
	if err := writeCSV(r.path, memoriesHeader, rows); err != nil {
		return fmt.Errorf("save memories to %s: %w", r.path, err)
	}
	return nil
}
