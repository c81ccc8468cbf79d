package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sidediff/internal/server"
	"github.com/matzehuels/sidediff/pkg/cache"
	"github.com/matzehuels/sidediff/pkg/diff"
	apperrors "github.com/matzehuels/sidediff/pkg/errors"
	"github.com/matzehuels/sidediff/pkg/pipeline"
	"github.com/matzehuels/sidediff/pkg/render/sink"
)

// =============================================================================
// Config File
// =============================================================================

// configEnv overrides the config file location.
const configEnv = "SIDEDIFF_CONFIG"

// Color modes accepted by [render] color and --color.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

var colorModes = []string{colorAuto, colorAlways, colorNever}

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	Diff   DiffConfig   `toml:"diff"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// DiffConfig holds comparison defaults.
type DiffConfig struct {
	Granularity   string `toml:"granularity"`
	Algorithm     string `toml:"algorithm"`
	Window        int    `toml:"window"`
	MaxTokens     int    `toml:"max_tokens"`
	MaxInputBytes int64  `toml:"max_input_bytes"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Width   int      `toml:"width"` // 0 follows the terminal
	Color   string   `toml:"color"`
	Title   string   `toml:"title"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// Prefix namespaces every key, for deployments sharing one backend.
	Prefix string `toml:"prefix"`
}

// ServerConfig configures `sidediff serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	ReadTimeout  duration `toml:"read_timeout"`
	WriteTimeout duration `toml:"write_timeout"`
}

// duration decodes TOML strings such as "10s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Diff.Granularity == "" {
		c.Diff.Granularity = pipeline.DefaultGranularity
	}
	if c.Diff.Algorithm == "" {
		c.Diff.Algorithm = pipeline.DefaultAlgorithm
	}
	if c.Diff.Window == 0 {
		c.Diff.Window = pipeline.DefaultWindow
	}
	if c.Diff.MaxTokens == 0 {
		c.Diff.MaxTokens = pipeline.DefaultMaxTokens
	}
	if c.Diff.MaxInputBytes == 0 {
		c.Diff.MaxInputBytes = pipeline.DefaultMaxInputBytes
	}
	if len(c.Render.Formats) == 0 {
		c.Render.Formats = []string{sink.FormatTerminal}
	}
	if c.Render.Color == "" {
		c.Render.Color = colorAuto
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.MongoDatabase == "" {
		c.Cache.MongoDatabase = appName
	}
	if c.Cache.MongoCollection == "" {
		c.Cache.MongoCollection = cache.DefaultMongoCollection
	}
	if c.Server.Addr == "" {
		c.Server.Addr = server.DefaultAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = server.DefaultMaxBodyBytes
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = server.DefaultReadTimeout
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = server.DefaultWriteTimeout
	}
}

// Validate checks every field, reporting the first problem as INVALID_CONFIG.
func (c *Config) Validate() error {
	if _, err := diff.ParseGranularity(c.Diff.Granularity); err != nil {
		return configError("diff.granularity", err)
	}
	if _, err := diff.NewAligner(c.Diff.Algorithm, c.Diff.Window); err != nil {
		return configError("diff.algorithm", err)
	}
	if c.Diff.Window < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "diff.window must be positive, got %d", c.Diff.Window)
	}
	if c.Diff.MaxTokens < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "diff.max_tokens must be positive, got %d", c.Diff.MaxTokens)
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return configError("render.formats", err)
	}
	if c.Render.Width != 0 && c.Render.Width < sink.MinTerminalWidth {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "render.width must be 0 or at least %d, got %d", sink.MinTerminalWidth, c.Render.Width)
	}
	if !slices.Contains(colorModes, strings.ToLower(c.Render.Color)) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "render.color must be one of %s, got %q", strings.Join(colorModes, ", "), c.Render.Color)
	}
	if !slices.Contains(cache.Backends, strings.ToLower(c.Cache.Backend)) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.backend must be one of %s, got %q", strings.Join(cache.Backends, ", "), c.Cache.Backend)
	}
	if strings.EqualFold(c.Cache.Backend, cache.BackendMongo) && c.Cache.MongoURI == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
	}
	if c.Server.MaxBodyBytes < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

func configError(field string, err error) error {
	return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s: %s", field, apperrors.UserMessage(err))
}

// =============================================================================
// Loading
// =============================================================================

// loadConfig reads the config at path. A missing file yields the defaults
// unless required is set. Unknown keys are rejected.
func loadConfig(path string, required bool) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		cfg = Config{}
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s not found", path)
	case err != nil:
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s: %v", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// writeConfig encodes cfg as TOML.
func writeConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// =============================================================================
// Conversions
// =============================================================================

// pipelineOptions returns the comparison and render defaults from cfg.
func (c Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Granularity:   c.Diff.Granularity,
		Algorithm:     c.Diff.Algorithm,
		Window:        c.Diff.Window,
		MaxTokens:     c.Diff.MaxTokens,
		MaxInputBytes: c.Diff.MaxInputBytes,
		Formats:       slices.Clone(c.Render.Formats),
		Width:         c.Render.Width,
		Title:         c.Render.Title,
	}
}

// cacheOptions returns the backend selection from cfg.
func (c Config) cacheOptions() cache.Options {
	opts := cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}
	if opts.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			opts.Dir = dir
		}
	}
	return opts
}

// keyer returns the cache keyer, scoped by cache.prefix when one is set.
func (c Config) keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// serverOptions returns the API server settings from cfg.
func (c Config) serverOptions() server.Options {
	defaults := c.pipelineOptions()
	defaults.Formats = nil
	defaults.Width = 0
	return server.Options{
		Addr:         c.Server.Addr,
		MaxBodyBytes: c.Server.MaxBodyBytes,
		ReadTimeout:  c.Server.ReadTimeout.Duration,
		WriteTimeout: c.Server.WriteTimeout.Duration,
		Defaults:     defaults,
	}
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location: $SIDEDIFF_CONFIG, then
// $XDG_CONFIG_HOME/sidediff/config.toml, then ~/.config/sidediff/config.toml.
func configPath() (string, error) {
	if p := os.Getenv(configEnv); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
