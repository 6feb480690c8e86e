package models

import "strings"

// Memory is a dated journal entry.
type Memory struct {
	Date        string `json:"date" validate:"required|calendarDate" gorm:"column:date"`
	Description string `json:"description" validate:"required|minLen:1" gorm:"column:description"`
}

func NewMemory(date, description string) (*Memory, error) {
	m := &Memory{Date: strings.TrimSpace(date), Description: strings.TrimSpace(description)}
	if err := validateStruct("memory", m); err != nil {
		return nil, err
	}
	return m, nil
}
