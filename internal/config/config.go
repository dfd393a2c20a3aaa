package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Power    PowerConfig    `yaml:"power" mapstructure:"power"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Places   PlacesConfig   `yaml:"places" mapstructure:"places"`
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PowerConfig configures the NASA POWER climatology client.
type PowerConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	CacheTTLHours int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// GeocodeConfig configures the Nominatim geocoding client.
type GeocodeConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	CountryBias string `yaml:"country_bias" mapstructure:"country_bias"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PlacesConfig configures the place gazetteer.
type PlacesConfig struct {
	// ExtraFiles lists YAML gazetteer files merged over the builtin table.
	ExtraFiles []string `yaml:"extra_files" mapstructure:"extra_files"`
}

// DefaultsConfig holds default assessment inputs applied when flags or
// request fields are omitted.
type DefaultsConfig struct {
	RoofWidthM       float64 `yaml:"roof_width_m" mapstructure:"roof_width_m"`
	RoofHeightM      float64 `yaml:"roof_height_m" mapstructure:"roof_height_m"`
	ClearanceM       float64 `yaml:"clearance_m" mapstructure:"clearance_m"`
	PanelWidthM      float64 `yaml:"panel_width_m" mapstructure:"panel_width_m"`
	PanelHeightM     float64 `yaml:"panel_height_m" mapstructure:"panel_height_m"`
	PanelWatt        float64 `yaml:"panel_watt" mapstructure:"panel_watt"`
	Orientation      string  `yaml:"orientation" mapstructure:"orientation"`
	PerformanceRatio float64 `yaml:"performance_ratio" mapstructure:"performance_ratio"`
	ShadingFactor    float64 `yaml:"shading_factor" mapstructure:"shading_factor"`
	CostPerKW        float64 `yaml:"cost_per_kw" mapstructure:"cost_per_kw"`
	TariffPerKWh     float64 `yaml:"tariff_per_kwh" mapstructure:"tariff_per_kwh"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SOLARMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "solarmap.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("power.base_url", "https://power.larc.nasa.gov/api/temporal/climatology/point")
	v.SetDefault("power.timeout_secs", 10)
	v.SetDefault("power.max_retries", 3)
	v.SetDefault("power.rate_per_sec", 2.0)
	v.SetDefault("power.cache_ttl_hours", 24)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "solarmap/1.0")
	v.SetDefault("geocode.country_bias", "India")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("defaults.roof_width_m", 10.0)
	v.SetDefault("defaults.roof_height_m", 8.0)
	v.SetDefault("defaults.clearance_m", 0.4)
	v.SetDefault("defaults.panel_width_m", 1.1)
	v.SetDefault("defaults.panel_height_m", 1.75)
	v.SetDefault("defaults.panel_watt", 400.0)
	v.SetDefault("defaults.orientation", "portrait")
	v.SetDefault("defaults.performance_ratio", 0.75)
	v.SetDefault("defaults.shading_factor", 0.1)
	v.SetDefault("defaults.cost_per_kw", 55000.0)
	v.SetDefault("defaults.tariff_per_kwh", 8.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
