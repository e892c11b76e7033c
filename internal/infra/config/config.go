package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config -
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type AppConfig struct {
	DataDir string `mapstructure:"data_dir"`
	LogDir  string `mapstructure:"log_dir"`
}

// StorageConfig - key-value store settings
type StorageConfig struct {
	Key string `mapstructure:"key"` // key the value list is stored under
}

type ChartConfig struct {
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	MarginTop    float64 `mapstructure:"margin_top"`
	MarginRight  float64 `mapstructure:"margin_right"`
	MarginBottom float64 `mapstructure:"margin_bottom"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	TicksX       int     `mapstructure:"ticks_x"`
	TicksY       int     `mapstructure:"ticks_y"`
	YAxisWidth   float64 `mapstructure:"y_axis_width"`
	XAxisHeight  float64 `mapstructure:"x_axis_height"`
	LogAxis      bool    `mapstructure:"log_axis"`
	ChartsDir    string  `mapstructure:"charts_dir"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"` // empty accepts commands from any chat
}

// LoadConfig from env, and
// 1. by default
// 2. config.yaml
// 3. .env file
// 4. environment and command flags
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	return load(flags, ".")
}

func load(flags *pflag.FlagSet, dir string) (*Config, error) {
	// Load .env into the process environment so BindEnv aliases see it
	if err := godotenv.Load(dir + "/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	// App -
	v.BindEnv("app.data_dir", "LINECHART_DATA_DIR")
	v.BindEnv("app.log_dir", "LINECHART_LOG_DIR")
	v.BindEnv("storage.key", "LINECHART_STORAGE_KEY")

	// Chart -
	v.BindEnv("chart.width", "LINECHART_CHART_WIDTH")
	v.BindEnv("chart.height", "LINECHART_CHART_HEIGHT")
	v.BindEnv("chart.ticks_x", "LINECHART_TICKS_X")
	v.BindEnv("chart.ticks_y", "LINECHART_TICKS_Y")
	v.BindEnv("chart.log_axis", "LINECHART_LOG_AXIS")
	v.BindEnv("chart.charts_dir", "LINECHART_CHARTS_DIR")

	// Server -
	v.BindEnv("server.addr", "LINECHART_ADDR")

	// Telegram -
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
}

// setDefaults by default
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.data_dir", "data_in")
	v.SetDefault("app.log_dir", "logs")
	v.SetDefault("storage.key", "values")

	v.SetDefault("chart.width", 640)
	v.SetDefault("chart.height", 400)
	v.SetDefault("chart.margin_top", 20)
	v.SetDefault("chart.margin_right", 20)
	v.SetDefault("chart.margin_bottom", 20)
	v.SetDefault("chart.margin_left", 20)
	v.SetDefault("chart.ticks_x", 5)
	v.SetDefault("chart.ticks_y", 5)
	v.SetDefault("chart.y_axis_width", 0)  // axis bands are carved by the renderers' margins
	v.SetDefault("chart.x_axis_height", 0) // same
	v.SetDefault("chart.log_axis", false)
	v.SetDefault("chart.charts_dir", "etc/charts")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
}

// RegisterFlags adds the command-line overrides to fs. Flag names match config keys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("app.data_dir", "data_in", "Data directory (env: LINECHART_DATA_DIR)")
	fs.String("app.log_dir", "logs", "Log directory (env: LINECHART_LOG_DIR)")
	fs.Bool("chart.log_axis", false, "Start with logarithmic value axis (env: LINECHART_LOG_AXIS)")
	fs.String("server.addr", ":8080", "HTTP listen address (env: LINECHART_ADDR)")
	fs.String("telegram.bot_token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
	fs.String("telegram.chat_id", "", "Telegram chat allowed to send commands (env: TELEGRAM_CHAT_ID)")
}

func validateConfig(cfg *Config) error {
	if cfg.App.DataDir == "" {
		return fmt.Errorf("app.data_dir is required")
	}
	if cfg.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	if cfg.Chart.Width < 0 || cfg.Chart.Height < 0 {
		return fmt.Errorf("chart size must not be negative: %vx%v", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.TicksX < 0 || cfg.Chart.TicksY < 0 {
		return fmt.Errorf("tick counts must not be negative: x=%d y=%d", cfg.Chart.TicksX, cfg.Chart.TicksY)
	}
	for name, m := range map[string]float64{
		"margin_top":    cfg.Chart.MarginTop,
		"margin_right":  cfg.Chart.MarginRight,
		"margin_bottom": cfg.Chart.MarginBottom,
		"margin_left":   cfg.Chart.MarginLeft,
		"y_axis_width":  cfg.Chart.YAxisWidth,
		"x_axis_height": cfg.Chart.XAxisHeight,
	} {
		if m < 0 {
			return fmt.Errorf("chart.%s must not be negative: %v", name, m)
		}
	}
	return nil
}

// ValidateTelegram checks the settings the bot command needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required (env: TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID != "" {
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("invalid telegram.chat_id %q: %w", c.Telegram.ChatID, err)
		}
	}
	return nil
}

// ChatID returns the allowed chat, 0 when unrestricted.
func (c *Config) ChatID() int64 {
	id, _ := strconv.ParseInt(c.Telegram.ChatID, 10, 64)
	return id
}
