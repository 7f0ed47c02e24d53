package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/rentwise/internal/auth"
)

// Photo backends.
const (
	PhotoBackendS3     = "s3"
	PhotoBackendGridFS = "gridfs"
	PhotoBackendNone   = "none"
)

// Defaults.
const (
	DefaultAddr        = ":8080"
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
	DefaultDBPath      = "rentwise.db"
	DefaultS3Region    = "us-east-1"
	DefaultS3Bucket    = "rentwise-photos"
	DefaultMongoDB     = "rentwise"
	DefaultQueue       = "properties_queue"
	DefaultTokenTTL    = 24 * time.Hour
)

// Config is the contents of rentwise.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Photos   PhotosConfig   `yaml:"photos"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
	API      APIConfig      `yaml:"api"`
}

// ServerConfig configures `rentwise serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// PublicURL prefixes photo URLs served by the API itself.
	PublicURL string `yaml:"public_url,omitempty"`

	// SessionTTL is how long an idle wizard session lives.
	SessionTTL time.Duration `yaml:"session_ttl"`

	MaxSessions int `yaml:"max_sessions"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PhotosConfig selects where photo bytes go.
type PhotosConfig struct {
	Backend string      `yaml:"backend"`
	S3      S3Config    `yaml:"s3,omitempty"`
	Mongo   MongoConfig `yaml:"mongo,omitempty"`
}

// S3Config configures the S3 photo backend.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	PublicURL string `yaml:"public_url,omitempty"`

	// Credentials come from S3_ACCESS_KEY / S3_SECRET_KEY.
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// MongoConfig configures the GridFS photo backend.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// EventsConfig configures property events. An empty URL disables them.
type EventsConfig struct {
	AMQPURL string `yaml:"amqp_url,omitempty"`
	Queue   string `yaml:"queue"`
}

// Enabled reports whether events are published.
func (e EventsConfig) Enabled() bool {
	return e.AMQPURL != ""
}

// AuthConfig configures authentication.
type AuthConfig struct {
	// JWTSecret comes from JWT_SECRET.
	JWTSecret string        `yaml:"-"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Users     []UserConfig  `yaml:"users,omitempty"`
}

// UserConfig is a configured account.
type UserConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// APIConfig points the CLI at a remote server.
type APIConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`

	// Token is written by `rentwise login`.
	Token string `yaml:"token,omitempty"`
}

// Remote reports whether CLI submissions go to a remote server.
func (a APIConfig) Remote() bool {
	return a.BaseURL != ""
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = DefaultSessionTTL
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = DefaultMaxSessions
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.Photos.Backend == "" {
		c.Photos.Backend = PhotoBackendNone
	}
	if c.Photos.S3.Region == "" {
		c.Photos.S3.Region = DefaultS3Region
	}
	if c.Photos.S3.Bucket == "" {
		c.Photos.S3.Bucket = DefaultS3Bucket
	}
	if c.Photos.Mongo.Database == "" {
		c.Photos.Mongo.Database = DefaultMongoDB
	}
	if c.Events.Queue == "" {
		c.Events.Queue = DefaultQueue
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl must be positive"))
	}
	if c.Server.MaxSessions < 1 {
		errs = append(errs, errors.New("server.max_sessions must be at least 1"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	switch c.Photos.Backend {
	case PhotoBackendNone:
	case PhotoBackendS3:
		if c.Photos.S3.Bucket == "" {
			errs = append(errs, errors.New("photos.s3.bucket is required for the s3 backend"))
		}
	case PhotoBackendGridFS:
		if c.Photos.Mongo.URI == "" {
			errs = append(errs, errors.New("photos.mongo.uri is required for the gridfs backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("photos.backend must be one of: %s, %s, %s (got %q)",
			PhotoBackendS3, PhotoBackendGridFS, PhotoBackendNone, c.Photos.Backend))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	seen := make(map[string]bool, len(c.Auth.Users))
	for i, u := range c.Auth.Users {
		name := strings.ToLower(u.Username)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("auth.users[%d].username is required", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("auth.users[%d]: duplicate username %q", i, u.Username))
		}
		seen[name] = true
		if u.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("auth.users[%d].password_hash is required", i))
		}
		if _, err := auth.ParseRole(u.Role); err != nil {
			errs = append(errs, fmt.Errorf("auth.users[%d].role: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// ValidateServe adds the checks that only matter for `rentwise serve`.
func (c *Config) ValidateServe() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("%w: set JWT_SECRET", auth.ErrMissingSecret))
	}
	if len(c.Auth.Users) == 0 {
		errs = append(errs, errors.New("auth.users must list at least one user"))
	}
	return errors.Join(errs...)
}

// Users converts the configured accounts for the authenticator.
func (c *Config) Users() ([]auth.User, error) {
	users := make([]auth.User, 0, len(c.Auth.Users))
	for _, u := range c.Auth.Users {
		role, err := auth.ParseRole(u.Role)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		users = append(users, auth.User{
			ID:           strings.ToLower(u.Username),
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         role,
		})
	}
	return users, nil
}
