package structures

import "time"

type Server struct {
	Host            string  `yaml:"host" validate:"required"`
	Port            int     `yaml:"port" validate:"required|uint|min:1"`
	RateLimitPerSec float64 `yaml:"rateLimitPerSec"`
	RateLimitBurst  int     `yaml:"rateLimitBurst"`
}

type StorageConfig struct {
	Driver       string `yaml:"driver" validate:"required|in:csv,sqlite"`
	MealsFile    string `yaml:"mealsFile"`
	MemoriesFile string `yaml:"memoriesFile"`
	SqlitePath   string `yaml:"sqlitePath"`
	StateFile    string `yaml:"stateFile" validate:"required|unixPath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type TrackerConfig struct {
	Title        string        `yaml:"title"`
	TickInterval time.Duration `yaml:"tickInterval" validate:"required|min:1"`
	// Birthday in YYYY-MM-DD, used for the age of the baby and of each memory.
	Birthday string `yaml:"birthday" validate:"required|date"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Tracker   TrackerConfig `yaml:"tracker"`
	WebServer Server        `yaml:"webServer"`
	Storage   StorageConfig `yaml:"storage"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
