// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Widget   WidgetConfig   `mapstructure:"widget"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the listen address for the intake HTTP surface.
// The same port serves the API, health probes and /metrics.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// BackendConfig describes the travel backend that receives submitted
// place payloads.
type BackendConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// WidgetConfig mirrors the construction options of the browser widget.
// AllowedTypes restricts which place categories are selectable.
type WidgetConfig struct {
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// SessionsConfig governs the lifecycle of page sessions.
type SessionsConfig struct {
	IdleTTL       int `mapstructure:"idle_ttl"`       // milliseconds
	SweepInterval int `mapstructure:"sweep_interval"` // milliseconds
	StoreTimeout  int `mapstructure:"store_timeout"`  // milliseconds
}

// KafkaConfig configures the optional Kafka selection source.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

// RedisConfig configures the optional shared seen-set backend. When
// disabled, each session keeps an in-process seen-set.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
