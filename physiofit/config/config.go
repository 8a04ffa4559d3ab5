package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `env:"ADDR" envDefault:":8000"`
	ServerTimeout time.Duration `env:"SERVER_TIMEOUT" envDefault:"60s"`
	LogDir        string        `env:"LOG_DIR" envDefault:"./logs"`

	// Identity provider (public values, safe to ship to the browser).
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`
	CookieSecure    bool   `env:"COOKIE_SECURE" envDefault:"false"`

	// Session gate
	ProtectedPrefixes []string `env:"PROTECTED_PREFIXES" envDefault:"/dashboard" envSeparator:","`
	LoginPath         string   `env:"LOGIN_PATH" envDefault:"/login"`

	// Chat relay
	InferenceURL       string   `env:"INFERENCE_URL" envDefault:"http://localhost:11434/api/chat"`
	ModelID            string   `env:"MODEL_ID" envDefault:"qwen2.5:7b"`
	InferenceTimeoutMs int      `env:"INFERENCE_TIMEOUT_MS" envDefault:"0"`
	ChatAllowedRoles   []string `env:"CHAT_ALLOWED_ROLES" envSeparator:","`
	ChatMaxHistory     int      `env:"CHAT_MAX_HISTORY" envDefault:"0"`
	// 0 accepts API bodies of any size.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"0"`

	BodyParts []string `env:"BODY_PARTS" envDefault:"Nacken,Schultern,Rücken,Hüfte,Knie,Fußgelenk" envSeparator:","`
}

// overlay is the optional YAML file shape. Zero values leave the env value
// untouched.
type overlay struct {
	Gate struct {
		ProtectedPrefixes []string `yaml:"protected_prefixes"`
		LoginPath         string   `yaml:"login_path"`
	} `yaml:"gate"`
	Chat struct {
		InferenceURL string   `yaml:"inference_url"`
		ModelID      string   `yaml:"model_id"`
		TimeoutMs    int      `yaml:"timeout_ms"`
		AllowedRoles []string `yaml:"allowed_roles"`
		MaxHistory   int      `yaml:"max_history"`
		MaxBodyBytes int64    `yaml:"max_body_bytes"`
	} `yaml:"chat"`
	BodyParts []string `yaml:"body_parts"`
}

// LoadConfig reads .env (if any), the process environment and, when
// CONFIG_FILE is set, a YAML overlay on top.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	return parse(env.Options{}, os.Getenv("CONFIG_FILE"))
}

// FromMap builds a Config from the given variables only, ignoring the
// process environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars}, vars["CONFIG_FILE"])
}

func parse(opts env.Options, file string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}

	if file != "" {
		if err := cfg.applyFile(file); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return c.applyYAML(data)
}

func (c *Config) applyYAML(data []byte) error {
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if len(o.Gate.ProtectedPrefixes) > 0 {
		c.ProtectedPrefixes = o.Gate.ProtectedPrefixes
	}
	if o.Gate.LoginPath != "" {
		c.LoginPath = o.Gate.LoginPath
	}
	if o.Chat.InferenceURL != "" {
		c.InferenceURL = o.Chat.InferenceURL
	}
	if o.Chat.ModelID != "" {
		c.ModelID = o.Chat.ModelID
	}
	if o.Chat.TimeoutMs > 0 {
		c.InferenceTimeoutMs = o.Chat.TimeoutMs
	}
	if len(o.Chat.AllowedRoles) > 0 {
		c.ChatAllowedRoles = o.Chat.AllowedRoles
	}
	if o.Chat.MaxHistory > 0 {
		c.ChatMaxHistory = o.Chat.MaxHistory
	}
	if o.Chat.MaxBodyBytes > 0 {
		c.MaxBodyBytes = o.Chat.MaxBodyBytes
	}
	if len(o.BodyParts) > 0 {
		c.BodyParts = o.BodyParts
	}
	return nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.SupabaseURL == "" {
		result = multierror.Append(result, errors.New("SUPABASE_URL is required"))
	} else if _, err := url.ParseRequestURI(c.SupabaseURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("SUPABASE_URL: %w", err))
	}
	if c.SupabaseAnonKey == "" {
		result = multierror.Append(result, errors.New("SUPABASE_ANON_KEY is required"))
	}
	if _, err := url.ParseRequestURI(c.InferenceURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("INFERENCE_URL: %w", err))
	}
	if strings.TrimSpace(c.ModelID) == "" {
		result = multierror.Append(result, errors.New("MODEL_ID must not be empty"))
	}
	if c.InferenceTimeoutMs < 0 {
		result = multierror.Append(result, errors.New("INFERENCE_TIMEOUT_MS must not be negative"))
	}
	if c.ChatMaxHistory < 0 {
		result = multierror.Append(result, errors.New("CHAT_MAX_HISTORY must not be negative"))
	}
	if c.MaxBodyBytes < 0 {
		result = multierror.Append(result, errors.New("MAX_BODY_BYTES must not be negative"))
	}
	if !strings.HasPrefix(c.LoginPath, "/") {
		result = multierror.Append(result, errors.New("LOGIN_PATH must start with /"))
	}
	for _, p := range c.ProtectedPrefixes {
		if !strings.HasPrefix(p, "/") {
			result = multierror.Append(result, fmt.Errorf("protected prefix %q must start with /", p))
		}
	}
	if len(c.BodyParts) == 0 {
		result = multierror.Append(result, errors.New("BODY_PARTS must not be empty"))
	}

	return result.ErrorOrNil()
}

// InferenceTimeout is zero when no deadline is configured.
func (c Config) InferenceTimeout() time.Duration {
	return time.Duration(c.InferenceTimeoutMs) * time.Millisecond
}
