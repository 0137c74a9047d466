package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port          string
	DatabaseURL   string
	UploadDir     string
	PublicBaseURL string
	MaxUploadMB   int64
	RankingSize   int
	CORSOrigins   []string
}

// Load reads an optional .env file, then the process environment.
// Values already present in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "loading %s", f)
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	maxMB, err := getInt("MAX_UPLOAD_MB", 5)
	if err != nil {
		return nil, err
	}
	if maxMB <= 0 {
		return nil, errors.Errorf("MAX_UPLOAD_MB must be > 0, got %d", maxMB)
	}
	cfg.MaxUploadMB = int64(maxMB)

	cfg.RankingSize, err = getInt("RANKING_SIZE", 10)
	if err != nil {
		return nil, err
	}
	if cfg.RankingSize <= 0 {
		return nil, errors.Errorf("RANKING_SIZE must be > 0, got %d", cfg.RankingSize)
	}

	return cfg, nil
}

// MaxUploadBytes is the image size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// UsesMemoryStore reports whether no database is configured.
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
