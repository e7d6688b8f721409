package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	EdgeKVHost string
	EdgeKVPort int
	Namespace  string
	PoolSize   int
	GelfAddr   string
}

// Load reads configuration from the environment, with a .env file picked
// up when present. The admin secrets are not here: they live in the store
// itself and are read at request time.
func Load() *Config {
	godotenv.Load()

	return &Config{
		HTTPAddr:   getEnv("EDGEFORM_ADDR", ":8080"),
		EdgeKVHost: getEnv("EDGEKV_HOST", "127.0.0.1"),
		EdgeKVPort: getEnvInt("EDGEKV_PORT", 4444),
		Namespace:  getEnv("EDGEKV_NAMESPACE", "edge-form"),
		PoolSize:   getEnvInt("EDGEFORM_POOL_SIZE", 3),
		GelfAddr:   getEnv("EDGEFORM_GELF_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}
