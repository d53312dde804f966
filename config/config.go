package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	MediaBackendLocal = "local"
	MediaBackendS3    = "s3"
)

const (
	defaultJWTExpireHours = 168 // 7 days
	defaultMaxUploadMB    = 100
	defaultThumbnailSize  = 400
)

// SeedAccount is an account provisioned at startup. Privileged seed accounts
// keep the viewer role; their email is what grants elevated access.
type SeedAccount struct {
	Email    string
	Password string
}

type Config struct {
	Port string

	// database path
	DatabasePath string

	// auth
	JWTSecret      string
	JWTExpireHours int
	AdminEmail     string
	AdminPassword  string

	// privileged viewer accounts: allowlist + seed credentials
	PrivilegedAccounts []SeedAccount

	// when true, an explicit isPublic/isPrivate query parameter is applied
	// verbatim even for callers without elevated access (matches the
	// behavior this service was ported from); when false the visibility
	// restriction always wins
	TrustExplicitVisibilityFilter bool

	// media storage configuration
	MediaBackend     string
	MediaStoragePath string
	PublicBaseURL    string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string

	MaxUploadMB   int
	ThumbnailSize int
}

// PrivilegedEmails returns just the allowlisted addresses.
func (c Config) PrivilegedEmails() []string {
	emails := make([]string, 0, len(c.PrivilegedAccounts))
	for _, acct := range c.PrivilegedAccounts {
		emails = append(emails, acct.Email)
	}
	return emails
}

// MaxUploadBytes is the per-file upload ceiling.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t.", envVar, valStr, defaultVal)
		return defaultVal
	}
	return val
}

// parsePrivilegedAccounts parses "email:password,email:password". A pair
// without a password gets one derived from the mailbox name, matching the
// historical seed accounts.
func parsePrivilegedAccounts(raw string) ([]SeedAccount, error) {
	var accounts []SeedAccount
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		email, password, found := strings.Cut(pair, ":")
		email = strings.TrimSpace(email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("invalid privileged account entry %q", pair)
		}
		if !found || password == "" {
			mailbox, _, _ := strings.Cut(email, "@")
			password = mailbox + "123456"
		}
		accounts = append(accounts, SeedAccount{Email: email, Password: password})
	}
	return accounts, nil
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "memories.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	jwtSecret := getEnvOrDefault("JWT_SECRET", "")
	if jwtSecret == "" {
		jwtSecret = "default-secret-change-in-production"
		log.Printf("Warning: JWT_SECRET not set, using insecure default")
	}

	privRaw := getEnvOrDefault("PRIVILEGED_ACCOUNTS", "cuong@123.com:cuong123456,linh@123.com:linh123456")
	privAccounts, err := parsePrivilegedAccounts(privRaw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse PRIVILEGED_ACCOUNTS: %w", err)
	}

	mediaBackend := getEnvOrDefault("MEDIA_BACKEND", MediaBackendLocal)
	if mediaBackend != MediaBackendLocal && mediaBackend != MediaBackendS3 {
		return Config{}, fmt.Errorf("invalid MEDIA_BACKEND '%s' (want %s or %s)", mediaBackend, MediaBackendLocal, MediaBackendS3)
	}

	port := getEnvOrDefault("PORT", "5000")

	cfg := Config{
		Port:                          port,
		DatabasePath:                  dbPath,
		JWTSecret:                     jwtSecret,
		JWTExpireHours:                getEnvIntOrDefault("JWT_EXPIRE_HOURS", defaultJWTExpireHours),
		AdminEmail:                    getEnvOrDefault("ADMIN_EMAIL", "admin@123.com"),
		AdminPassword:                 getEnvOrDefault("ADMIN_PASSWORD", "admin123456"),
		PrivilegedAccounts:            privAccounts,
		TrustExplicitVisibilityFilter: getEnvBoolOrDefault("TRUST_EXPLICIT_VISIBILITY_FILTER", true),
		MediaBackend:                  mediaBackend,
		MediaStoragePath:              absMediaStorage,
		PublicBaseURL:                 strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		S3Bucket:                      os.Getenv("S3_BUCKET"),
		S3Region:                      os.Getenv("S3_REGION"),
		S3Endpoint:                    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:                   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:                   os.Getenv("S3_SECRET_KEY"),
		MaxUploadMB:                   getEnvIntOrDefault("MAX_UPLOAD_MB", defaultMaxUploadMB),
		ThumbnailSize:                 getEnvIntOrDefault("THUMBNAIL_SIZE", defaultThumbnailSize),
	}

	if cfg.MediaBackend == MediaBackendS3 && cfg.S3Bucket == "" {
		return Config{}, fmt.Errorf("MEDIA_BACKEND=s3 requires S3_BUCKET")
	}

	return cfg, nil
}
