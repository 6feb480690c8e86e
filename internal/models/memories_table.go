package models

import (
	"fmt"
	"sort"
	"time"

	"milktracker/internal/timeutil"
)

type MemoryRow struct {
	Memory
	Index int    `json:"index"`
	Age   string `json:"age"`
}

// MemoriesTable keeps memories sorted by date, most recent first. Indexes are
// positions in that order and shift after every mutation.
type MemoriesTable struct {
	birthday time.Time
	rows     []MemoryRow
}

func NewMemoriesTable(birthday time.Time) *MemoriesTable {
	return &MemoriesTable{birthday: birthday}
}

func (t *MemoriesTable) Load(memories []Memory) error {
	rows := make([]MemoryRow, 0, len(memories))
	for i, m := range memories {
		if len(m.Date) > len(timeutil.DateLayout) {
			m.Date = m.Date[:len(timeutil.DateLayout)]
		}
		valid, err := NewMemory(m.Date, m.Description)
		if err != nil {
			return fmt.Errorf("memory %d: %w", i+1, err)
		}
		rows = append(rows, MemoryRow{Memory: *valid})
	}
	t.rows = rows
	t.reindex()
	return nil
}

func (t *MemoriesTable) Add(m Memory) {
	t.rows = append(t.rows, MemoryRow{Memory: m})
	t.reindex()
}

func (t *MemoriesTable) Edit(index int, m Memory) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("memory %d: %w", index, ErrNotFound)
	}
	t.rows[index].Memory = m
	t.reindex()
	return nil
}

func (t *MemoriesTable) Remove(index int) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("memory %d: %w", index, ErrNotFound)
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	t.reindex()
	return nil
}

func (t *MemoriesTable) Clone() *MemoriesTable {
	return &MemoriesTable{birthday: t.birthday, rows: t.Rows()}
}

func (t *MemoriesTable) Rows() []MemoryRow {
	return append([]MemoryRow(nil), t.rows...)
}

func (t *MemoriesTable) Memories() []Memory {
	out := make([]Memory, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Memory
	}
	return out
}

func (t *MemoriesTable) reindex() {
	sort.SliceStable(t.rows, func(i, j int) bool { return t.rows[i].Date > t.rows[j].Date })
	for i := range t.rows {
		t.rows[i].Index = i
		if d, err := time.Parse(timeutil.DateLayout, t.rows[i].Date); err == nil {
			t.rows[i].Age = timeutil.HumanPeriodBetween(d, t.birthday)
		}
	}
}
