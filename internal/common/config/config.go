// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Engine        EngineConfig       `mapstructure:"engine"`
	Playbook      PlaybookConfig     `mapstructure:"playbook"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	RequestTimeout  int    `mapstructure:"request_timeout"`  // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// EngineConfig holds scoring weights, decision bands, and result caching.
type EngineConfig struct {
	Weights  WeightsConfig `mapstructure:"weights"`
	Bands    BandsConfig   `mapstructure:"bands"`
	CacheTTL int           `mapstructure:"cache_ttl"` // seconds, 0 disables caching
}

// WeightsConfig mirrors engine.Weights. Fields are pointers so a partial
// weights section stays usable: absent keys keep the built-in defaults,
// while an explicit 0 neutralizes that signal.
type WeightsConfig struct {
	CustomerImpact      *float64 `mapstructure:"customer_impact"`
	StrategicAlignment  *float64 `mapstructure:"strategic_alignment"`
	ExecSponsor         *float64 `mapstructure:"exec_sponsor"`
	TechnicalComplexity *float64 `mapstructure:"technical_complexity"`
	DeliveryRisk        *float64 `mapstructure:"delivery_risk"`
	ComplianceRisk      *float64 `mapstructure:"compliance_risk"`
	Dependencies        *float64 `mapstructure:"dependencies"`
	TeamSize            *float64 `mapstructure:"team_size"`
	Duration            *float64 `mapstructure:"duration"`
	Cost                *float64 `mapstructure:"cost"`
}

// BandsConfig holds the score thresholds that separate the three outcomes.
type BandsConfig struct {
	GoThreshold     int `mapstructure:"go_threshold"`
	ReviewThreshold int `mapstructure:"review_threshold"`
}

// PlaybookConfig points at an optional JSON playbook of next-step and
// guardrail text. Empty path means built-in defaults.
type PlaybookConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationConfig holds settings for decision outcome notifications.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool   `mapstructure:"enabled"`
		ToPhone string `mapstructure:"to_phone"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	// Decisions that trigger a notification, e.g. ["NO-GO", "NEEDS REVIEW"]
	NotifyOn []string `mapstructure:"notify_on"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
