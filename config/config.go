package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/navbryce/next-dorm-blog/util"
)

type PostsBackend string

const (
	PostsBackendFirestore PostsBackend = "firestore"
	PostsBackendMySQL     PostsBackend = "mysql"
	PostsBackendMemory    PostsBackend = "memory"
)

const (
	DefaultPostsCollection = "blogPosts"
	DefaultPageSize        = 5
	MaxPageSize            = 100
	DefaultCacheTTL        = 30 * time.Second
	DefaultMemorySeedPosts = 12
)

type Config struct {
	Port              string
	GinMode           string
	FEOrigins         []string
	PostsBackend      PostsBackend
	PostsCollection   string
	PageSize          int
	FirebaseProjectID string
	DBUser            string
	DBPass            string `json:"-"`
	DBHost            string
	DBName            string
	ValkeyAddress     string
	ValkeyTLSEnabled  bool
	CacheTTL          time.Duration
	DisplayLocation   *time.Location `json:"-"`
	MemorySeedPosts   int
}

func New() (Config, error) {
	pageSize, err := util.GetEnvInt("PAGE_SIZE", DefaultPageSize)
	if err != nil {
		return Config{}, err
	}
	cacheTTLSeconds, err := util.GetEnvInt("CACHE_TTL_SECONDS", int(DefaultCacheTTL/time.Second))
	if err != nil {
		return Config{}, err
	}
	memorySeedPosts, err := util.GetEnvInt("MEMORY_SEED_POSTS", DefaultMemorySeedPosts)
	if err != nil {
		return Config{}, err
	}
	location, err := time.LoadLocation(util.GetEnvStr("DISPLAY_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, util.WrapErr("failed to load display timezone", err)
	}

	result := Config{
		Port:              util.GetEnvStr("PORT", ""),
		GinMode:           util.GetEnvStr("GIN_MODE", "release"),
		FEOrigins:         util.GetEnvList("FE_ORIGINS", ";"),
		PostsBackend:      PostsBackend(util.GetEnvStr("POSTS_BACKEND", string(PostsBackendFirestore))),
		PostsCollection:   util.GetEnvStr("POSTS_COLLECTION", DefaultPostsCollection),
		PageSize:          pageSize,
		FirebaseProjectID: util.GetEnvStr("FIREBASE_PROJECT_ID", ""),
		DBUser:            util.GetEnvStr("DB_USER", ""),
		DBPass:            util.GetEnvStr("DB_PASS", ""),
		DBHost:            util.GetEnvStr("DB_HOST", ""),
		DBName:            util.GetEnvStr("DB_NAME", "blog"),
		ValkeyAddress:     util.GetEnvStr("VALKEY_ADDRESS", ""),
		ValkeyTLSEnabled:  util.GetEnvBool("VALKEY_TLS_ENABLED", false),
		CacheTTL:          time.Duration(cacheTTLSeconds) * time.Second,
		DisplayLocation:   location,
		MemorySeedPosts:   memorySeedPosts,
	}
	if err := result.Validate(); err != nil {
		return Config{}, err
	}

	// Marshal to JSON and print if debug is enabled
	data, err := json.Marshal(result)
	if err != nil {
		slog.Warn(util.WrapErr("failed to marshal config", err).Error())
	}
	slog.Debug("generated config", "config", string(data))

	return result, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("$PORT must be set")
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between 1 and %d", MaxPageSize)
	}
	if c.PostsCollection == "" {
		return errors.New("POSTS_COLLECTION must not be empty")
	}
	switch c.PostsBackend {
	case PostsBackendFirestore, PostsBackendMemory:
	case PostsBackendMySQL:
		if c.DBHost == "" {
			return errors.New("DB_HOST must be set for the mysql backend")
		}
	default:
		return fmt.Errorf("unsupported POSTS_BACKEND %q", c.PostsBackend)
	}
	if c.MemorySeedPosts < 0 {
		return errors.New("MEMORY_SEED_POSTS must not be negative")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL_SECONDS must be positive")
	}
	return nil
}

// CacheEnabled reports whether a valkey address was configured.
func (c Config) CacheEnabled() bool {
	return c.ValkeyAddress != ""
}
