package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"milktracker/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: structures.StorageConfig{
			Driver:       "csv",
			MealsFile:    "/tmp/meals.csv",
			MemoriesFile: "/tmp/memories.csv",
			StateFile:    "/tmp/state.db",
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Tracker: structures.TrackerConfig{
			TickInterval: time.Second,
			Birthday:     "2024-01-01",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_Rejections(t *testing.T) {
	cases := map[string]func(c *structures.Config){
		"empty host":        func(c *structures.Config) { c.WebServer.Host = "" },
		"zero port":         func(c *structures.Config) { c.WebServer.Port = 0 },
		"empty log level":   func(c *structures.Config) { c.Logger.Level = "" },
		"bad log level":     func(c *structures.Config) { c.Logger.Level = "verbose" },
		"unknown driver":    func(c *structures.Config) { c.Storage.Driver = "excel" },
		"no state file":     func(c *structures.Config) { c.Storage.StateFile = "" },
		"csv without files": func(c *structures.Config) { c.Storage.MealsFile = "" },
		"sqlite without db": func(c *structures.Config) { c.Storage.Driver = "sqlite" },
		"no birthday":       func(c *structures.Config) { c.Tracker.Birthday = "" },
		"zero tick":         func(c *structures.Config) { c.Tracker.TickInterval = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			assert.Error(t, NewCnfValidator(c).Validate())
		})
	}
}

func TestConfigValidator_SqliteDriver(t *testing.T) {
	c := validConfig()
	c.Storage.Driver = "sqlite"
	c.Storage.SqlitePath = "/tmp/milk.db"
	assert.NoError(t, NewCnfValidator(c).Validate())
}
