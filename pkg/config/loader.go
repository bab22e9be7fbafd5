package config

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable read by LoadSettings.
const EnvPrefix = "VFORM_"

var defaultEnvLoaded sync.Once

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	prefix string
	files  []string
}

// WithPrefix sets the variable name prefix.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnvFiles loads the given dotenv files before parsing. Unlike the
// default .env file, these must exist. Variables already set win.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) { o.files = append(o.files, files...) }
}

// Load parses environment variables into the struct pointed to by v based
// on its env tags.
//
// The default .env file is loaded once per process if present.
//
//	type Settings struct {
//		Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
//	}
//
//	var s Settings
//	err := config.Load(&s, config.WithPrefix("VFORM_"))
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// The file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.files) > 0 {
		if err := godotenv.Load(o.files...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: o.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Settings are the process-level options of the vform command.
type Settings struct {
	Env       string `env:"ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	BaseURL     string        `env:"BASE_URL"`
	UserAgent   string        `env:"USER_AGENT" envDefault:"vform"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	MaxBodySize int64         `env:"MAX_BODY_SIZE" envDefault:"10485760"`

	// MetricsAddr serves /metrics while the command runs. It is a debug
	// aid: the server stops when the submission has settled.
	MetricsAddr string `env:"METRICS_ADDR"`
	// MetricsFile receives the metrics in text exposition format on exit,
	// for the node_exporter textfile collector.
	MetricsFile string `env:"METRICS_FILE"`
}

// LoadSettings reads Settings from VFORM_* variables.
func LoadSettings(opts ...Option) (Settings, error) {
	var s Settings
	err := Load(&s, append([]Option{WithPrefix(EnvPrefix)}, opts...)...)
	return s, err
}
