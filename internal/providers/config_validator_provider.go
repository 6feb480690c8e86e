package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"milktracker/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks every section and reports the first failing field.
func (c *CnfValidator) Validate() error {
	sections := map[string]interface{}{
		"webServer": &c.conf.WebServer,
		"storage":   &c.conf.Storage,
		"logger":    &c.conf.Logger,
		"tracker":   &c.conf.Tracker,
	}
	for name, section := range sections {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("config section %s: %s", name, v.Errors.One())
		}
	}

	switch c.conf.Storage.Driver {
	case "csv":
		if c.conf.Storage.MealsFile == "" || c.conf.Storage.MemoriesFile == "" {
			return fmt.Errorf("config section storage: csv driver needs mealsFile and memoriesFile")
		}
	case "sqlite":
		if c.conf.Storage.SqlitePath == "" {
			return fmt.Errorf("config section storage: sqlite driver needs sqlitePath")
		}
	}
	return nil
}
