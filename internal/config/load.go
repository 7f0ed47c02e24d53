package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "rentwise.yaml"

// ErrNotFound is returned by FindConfigFile when no file exists.
var ErrNotFound = errors.New("config file not found")

// Load reads path, applies defaults and environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data, os.Getenv)
}

// LoadFromBytes parses data like Load. getenv supplies overrides.
func LoadFromBytes(data []byte, getenv func(string) string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Resolve loads path, or the file found by FindConfigFile when path is
// empty. Without any file it returns defaults with environment overrides.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		found, err := FindConfigFile()
		switch {
		case errors.Is(err, ErrNotFound):
			cfg := &Config{}
			if err := cfg.ApplyEnv(os.Getenv); err != nil {
				return nil, "", err
			}
			cfg.applyDefaults()
			return cfg, "", cfg.Validate()
		case err != nil:
			return nil, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	str("RENTWISE_ADDR", &c.Server.Addr)
	str("RENTWISE_PUBLIC_URL", &c.Server.PublicURL)
	str("RENTWISE_DB", &c.Database.Path)
	str("RENTWISE_PHOTO_BACKEND", &c.Photos.Backend)
	str("RENTWISE_S3_ENDPOINT", &c.Photos.S3.Endpoint)
	str("RENTWISE_S3_REGION", &c.Photos.S3.Region)
	str("RENTWISE_S3_BUCKET", &c.Photos.S3.Bucket)
	str("RENTWISE_MONGO_URI", &c.Photos.Mongo.URI)
	str("RENTWISE_MONGO_DATABASE", &c.Photos.Mongo.Database)
	str("RENTWISE_AMQP_URL", &c.Events.AMQPURL)
	str("RENTWISE_AMQP_QUEUE", &c.Events.Queue)
	str("RENTWISE_API_URL", &c.API.BaseURL)
	str("RENTWISE_TOKEN", &c.API.Token)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("S3_ACCESS_KEY", &c.Photos.S3.AccessKey)
	str("S3_SECRET_KEY", &c.Photos.S3.SecretKey)

	if v := getenv("RENTWISE_S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RENTWISE_S3_PATH_STYLE %q: %w", v, err)
		}
		c.Photos.S3.PathStyle = b
	}
	return nil
}

// DefaultConfigPath returns the default path for the config file.
// It looks in the current working directory.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return DefaultConfigFilename
	}
	return filepath.Join(cwd, DefaultConfigFilename)
}

// FindConfigFile searches the current directory and its parents for
// rentwise.yaml.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return findFrom(cwd)
}

func findFrom(dir string) (string, error) {
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, DefaultConfigFilename)
}

// Save writes a configuration to a file. Secrets tagged yaml:"-" are
// never written.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
