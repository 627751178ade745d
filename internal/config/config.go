// Load envs from .env
// Load YAML config
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultListingURL = "https://seasonaljobs.dol.gov/jobs?search=&location=&start_date=&job_type=all&sort=accepted_date&radius=100&wage=all&facets="

type Config struct {
	ListingURL  string           `yaml:"listing_url" validate:"required,url"`
	Browser     BrowserConfig    `yaml:"browser"`
	Selectors   SelectorsConfig  `yaml:"selectors"`
	Timeouts    TimeoutsConfig   `yaml:"timeouts"`
	Pagination  PaginationConfig `yaml:"pagination"`
	Range       RangeConfig      `yaml:"range"`
	Output      OutputConfig     `yaml:"output"`
	Debug       DebugConfig      `yaml:"debug"`
	Telegram    TelegramConfig   `yaml:"telegram"`
	DatabaseURL string           `yaml:"database_url" validate:"omitempty,url"`
	Server      ServerConfig     `yaml:"server"`
	Log         LogConfig        `yaml:"log"`
}

type BrowserConfig struct {
	Headless       bool   `yaml:"headless"`
	UserAgent      string `yaml:"user_agent"`
	ViewportWidth  int    `yaml:"viewport_width" validate:"gte=0"`
	ViewportHeight int    `yaml:"viewport_height" validate:"gte=0"`
	CookiesPath    string `yaml:"cookies_path"`
	LockPath       string `yaml:"lock_path"`
}

type SelectorsConfig struct {
	Entry    string `yaml:"entry" validate:"required"`
	Detail   string `yaml:"detail" validate:"required"`
	LoadMore string `yaml:"load_more" validate:"required"`
	Close    string `yaml:"close" validate:"required"`
}

type TimeoutsConfig struct {
	Wait         time.Duration `yaml:"wait" validate:"gt=0"`
	Settle       time.Duration `yaml:"settle" validate:"gt=0"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
	EntryPause   time.Duration `yaml:"entry_pause" validate:"gte=0"`
	Jitter       time.Duration `yaml:"jitter" validate:"gte=0"`
}

type PaginationConfig struct {
	MaxStagnant int `yaml:"max_stagnant" validate:"gte=1"`
}

type RangeConfig struct {
	Start int `yaml:"start" validate:"gte=0"`
	End   int `yaml:"end" validate:"gtefield=Start"`
}

type OutputConfig struct {
	Dir        string `yaml:"dir" validate:"required"`
	File       string `yaml:"file" validate:"required"`
	DiffFile   string `yaml:"diff_file" validate:"required"`
	FilterFile string `yaml:"filter_file" validate:"required"`
}

type DebugConfig struct {
	Capture bool   `yaml:"capture"`
	Dir     string `yaml:"dir"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id" validate:"required_with=Token"`
}

// Enabled reports whether notifications are configured.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

var validate = validator.New()

// Load reads path (a missing file is fine), applies env overrides and
// defaults, then validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	// range.end and timeouts.entry_pause have a meaningful zero, so they
	// are seeded before parsing
	cfg := &Config{
		Range:    RangeConfig{End: 30},
		Timeouts: TimeoutsConfig{EntryPause: time.Second},
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LISTING_URL"); v != "" {
		cfg.ListingURL = v
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		cfg.Browser.Headless = b
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListingURL == "" {
		cfg.ListingURL = DefaultListingURL
	}
	if cfg.Browser.LockPath == "" {
		cfg.Browser.LockPath = ".cache/browser.lock"
	}

	s := &cfg.Selectors
	if s.Entry == "" {
		s.Entry = "article[tabindex='0']"
	}
	if s.Detail == "" {
		s.Detail = "#job-detail"
	}
	if s.LoadMore == "" {
		s.LoadMore = "xpath=//button[contains(text(), 'Load More')]"
	}
	if s.Close == "" {
		s.Close = "button[aria-label='Close']"
	}

	t := &cfg.Timeouts
	if t.Wait == 0 {
		t.Wait = 15 * time.Second
	}
	if t.Settle == 0 {
		t.Settle = 2 * time.Second
	}
	if t.PollInterval == 0 {
		t.PollInterval = 100 * time.Millisecond
	}

	if cfg.Pagination.MaxStagnant == 0 {
		cfg.Pagination.MaxStagnant = 5
	}

	o := &cfg.Output
	if o.Dir == "" {
		o.Dir = "data"
	}
	if o.File == "" {
		o.File = "seasonal_jobs_scraped.json"
	}
	if o.DiffFile == "" {
		o.DiffFile = "novos_registros.json"
	}
	if o.FilterFile == "" {
		o.FilterFile = "no_experience.json"
	}
	if cfg.Debug.Dir == "" {
		cfg.Debug.Dir = "logs/screenshots"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}
