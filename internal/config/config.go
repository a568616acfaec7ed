// Package config loads Dwellpoint settings from defaults, a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ayusman/dwellpoint/internal/dwell"
	"github.com/ayusman/dwellpoint/internal/mapping"
)

// ErrInvalid is returned when a loaded value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Dwell    DwellConfig    `mapstructure:"dwell"`
	Mapping  MappingConfig  `mapstructure:"mapping"`
	Sensor   SensorConfig   `mapstructure:"sensor"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Tray     TrayConfig     `mapstructure:"tray"`
	Hooks    HooksConfig    `mapstructure:"hooks"`
}

// DwellConfig holds the click thresholds.
type DwellConfig struct {
	StabilityRadius int           `mapstructure:"stability_radius"`
	SingleClick     time.Duration `mapstructure:"single_click"`
	DoubleClick     time.Duration `mapstructure:"double_click"`
}

// MappingConfig holds the depth to screen scale factors.
type MappingConfig struct {
	XScale float64 `mapstructure:"x_scale"`
	YScale float64 `mapstructure:"y_scale"`
}

// SensorConfig holds webcam tracking settings.
type SensorConfig struct {
	CameraID      int     `mapstructure:"camera_id"`
	FPS           int     `mapstructure:"fps"`
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	Mirror        bool    `mapstructure:"mirror"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the status server settings. An empty Addr disables the server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TrayConfig holds system tray settings.
type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// HooksConfig holds action hook settings.
type HooksConfig struct {
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Dir returns the Dwellpoint data directory, ~/.dwellpoint.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".dwellpoint")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dwell.stability_radius", dwell.DefaultStabilityRadius)
	v.SetDefault("dwell.single_click", dwell.DefaultSingleClickDwell)
	v.SetDefault("dwell.double_click", dwell.DefaultDoubleClickDwell)
	v.SetDefault("mapping.x_scale", float64(mapping.DefaultXScale))
	v.SetDefault("mapping.y_scale", float64(mapping.DefaultYScale))
	v.SetDefault("sensor.camera_id", 0)
	v.SetDefault("sensor.fps", 30)
	v.SetDefault("sensor.width", 640)
	v.SetDefault("sensor.height", 480)
	v.SetDefault("sensor.min_confidence", 0.5)
	v.SetDefault("sensor.mirror", true)
	v.SetDefault("database.path", filepath.Join(Dir(), "dwellpoint.db"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("tray.enabled", true)
	v.SetDefault("hooks.dir", filepath.Join(Dir(), "hooks"))
	v.SetDefault("hooks.timeout", 5*time.Second)
}

// Load reads configuration from file and env. Env var overrides use prefix DWELLPOINT_,
// e.g. DWELLPOINT_DWELL_SINGLE_CLICK=2s. The file is $DWELLPOINT_CONFIG if set,
// otherwise ~/.dwellpoint/config.toml when present.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path := os.Getenv("DWELLPOINT_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DWELLPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return c
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	switch {
	case c.Dwell.StabilityRadius <= 0:
		return fmt.Errorf("%w: dwell.stability_radius must be positive, got %d", ErrInvalid, c.Dwell.StabilityRadius)
	case c.Dwell.SingleClick <= 0:
		return fmt.Errorf("%w: dwell.single_click must be positive, got %s", ErrInvalid, c.Dwell.SingleClick)
	case c.Dwell.DoubleClick <= 0:
		return fmt.Errorf("%w: dwell.double_click must be positive, got %s", ErrInvalid, c.Dwell.DoubleClick)
	case c.Mapping.XScale <= 0 || c.Mapping.YScale <= 0:
		return fmt.Errorf("%w: mapping scales must be positive, got %gx%g", ErrInvalid, c.Mapping.XScale, c.Mapping.YScale)
	case c.Sensor.FPS <= 0:
		return fmt.Errorf("%w: sensor.fps must be positive, got %d", ErrInvalid, c.Sensor.FPS)
	case c.Sensor.Width <= 0 || c.Sensor.Height <= 0:
		return fmt.Errorf("%w: sensor resolution must be positive, got %dx%d", ErrInvalid, c.Sensor.Width, c.Sensor.Height)
	case c.Sensor.MinConfidence < 0 || c.Sensor.MinConfidence > 1:
		return fmt.Errorf("%w: sensor.min_confidence must be within [0,1], got %g", ErrInvalid, c.Sensor.MinConfidence)
	case c.Database.Path == "":
		return fmt.Errorf("%w: database.path is empty", ErrInvalid)
	case c.Hooks.Timeout <= 0:
		return fmt.Errorf("%w: hooks.timeout must be positive, got %s", ErrInvalid, c.Hooks.Timeout)
	}
	return nil
}

// DwellEngineConfig converts the dwell section into engine thresholds.
func (c Config) DwellEngineConfig() dwell.Config {
	return dwell.Config{
		StabilityRadius:  c.Dwell.StabilityRadius,
		SingleClickDwell: c.Dwell.SingleClick,
		DoubleClickDwell: c.Dwell.DoubleClick,
	}
}
