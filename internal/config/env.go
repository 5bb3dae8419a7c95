package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv layers environment overrides on top of the loaded config.
// Deployment knobs beat the file; the file beats the defaults.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TASKTROVE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TASKTROVE_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := os.Getenv("TASKTROVE_CORS_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	if v := getEnvInt64("TASKTROVE_MAX_BODY_BYTES"); v > 0 {
		c.Server.MaxBodyBytes = v
	}
	if v := os.Getenv("TASKTROVE_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("TASKTROVE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("TASKTROVE_AUTH_ENABLED"); v != "" {
		c.Auth.Enabled = envBool(v)
	}
	if v := os.Getenv("TASKTROVE_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getEnvInt("TASKTROVE_FOCUS_MINUTES"); v > 0 {
		c.Focus.DefaultMinutes = v
	}
}

func envBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvInt64(key string) int64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return num
}
