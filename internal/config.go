package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/supportdir/internal/paging"
	"github.com/starford/supportdir/internal/session"
)

// Dataset sources.
const (
	SourceFile = "file"
	SourceHTTP = "http"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Dataset    DatasetConfig     `yaml:"dataset"`
	Pagination PaginationConfig  `yaml:"pagination"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatasetConfig says where the directory document comes from.
//
// Source "file" reads Path and may watch it for changes; source "http"
// fetches URL once at startup.
type DatasetConfig struct {
	Source   string        `yaml:"source"`
	Path     string        `yaml:"path"`
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the dataset configuration.
func (c *DatasetConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.In(SourceFile, SourceHTTP)),
		validation.Field(&c.Path, validation.When(c.Source == SourceFile, validation.Required)),
		validation.Field(&c.URL, validation.When(c.Source == SourceHTTP, validation.Required, is.URL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// Watching reports whether the dataset file should be reloaded on change.
func (c *DatasetConfig) Watching() bool {
	return c.Source == SourceFile && c.Watch
}

// PaginationConfig selects how results are windowed.
type PaginationConfig struct {
	Mode            string `yaml:"mode"`
	PageSize        int    `yaml:"page_size"`
	MaxVisiblePages int    `yaml:"max_visible_pages"`
	BatchSize       int    `yaml:"batch_size"`
}

// Validate validates the pagination configuration.
func (c *PaginationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required,
			validation.In(string(paging.ModePaged), string(paging.ModeIncremental))),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxVisiblePages, validation.Required, validation.Min(1), validation.By(odd)),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1)),
	)
}

// Session converts the section into engine settings.
func (c *PaginationConfig) Session() session.Config {
	return session.Config{
		Mode:            paging.Mode(c.Mode),
		PageSize:        c.PageSize,
		MaxVisiblePages: c.MaxVisiblePages,
		BatchSize:       c.BatchSize,
	}
}

func odd(value any) error {
	n, _ := value.(int)
	if n%2 == 0 {
		return errors.New("must be odd")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	def := session.DefaultConfig()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Dataset: DatasetConfig{
			Source:   SourceFile,
			Path:     "./data/services.json",
			Timeout:  10 * time.Second,
			Debounce: 200 * time.Millisecond,
		},
		Pagination: PaginationConfig{
			Mode:            string(def.Mode),
			PageSize:        def.PageSize,
			MaxVisiblePages: def.MaxVisiblePages,
			BatchSize:       def.BatchSize,
		},
	}
}
