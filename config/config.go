package config

import (
	"os"

	"Gin_postgres_redis_local_library/logger"

	"github.com/joho/godotenv"
)

// LoadEnv pulls variables from .env files into the process environment.
// Variables that are already set win over the file.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			logger.Log.Debugf("env file %s not found, skipping", f)
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logger.Log.Warnf("load %s: %v", f, err)
			continue
		}
		logger.Log.Infof("loaded environment from %s", f)
	}
}
