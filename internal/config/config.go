package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings for the template cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FetchConfig controls template retrieval.
type FetchConfig struct {
	Timeout      string `mapstructure:"timeout"`       // duration string, e.g., "30s"
	CacheEnabled bool   `mapstructure:"cache_enabled"` // cache remote template bodies in Redis
	CacheTTL     string `mapstructure:"cache_ttl"`     // e.g., "1h"
}

// SendConfig controls webhook delivery.
type SendConfig struct {
	Timeout string `mapstructure:"timeout"` // per-request timeout
	Delay   string `mapstructure:"delay"`   // pause between sequential sends
	Workers int    `mapstructure:"workers"` // concurrent sends; 1 = sequential
}

// WindowConfig controls how events are spread over trailing calendar days.
type WindowConfig struct {
	Days int `mapstructure:"days"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the top-level configuration structure.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Send   SendConfig   `mapstructure:"send"`
	Window WindowConfig `mapstructure:"window"`
	Server ServerConfig `mapstructure:"server"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Fetch.Timeout == "" {
		c.Fetch.Timeout = "30s"
	}
	if c.Fetch.CacheTTL == "" {
		c.Fetch.CacheTTL = "1h"
	}
	if c.Send.Timeout == "" {
		c.Send.Timeout = "30s"
	}
	if c.Send.Delay == "" {
		c.Send.Delay = "50ms"
	}
	if c.Send.Workers == 0 {
		c.Send.Workers = 1
	}
	if c.Window.Days == 0 {
		c.Window.Days = 7
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}
