package config

import (
	"strings"
	"time"
)

// parseEnv applies environment overrides. PORT and DATABASE_URL follow the
// usual PaaS conventions; the rest use the FLORIFY_ prefix.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("PORT"); ok && v != "" {
		config.HTTPAddr = ":" + v
	}
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("FLORIFY_LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := lookup("FLORIFY_ALLOWED_ORIGINS"); ok && v != "" {
		config.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("FLORIFY_QUERY_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.QueryTimeout = d
		}
	}
	if v, ok := lookup("FLORIFY_S3_ROOT_USER"); ok && v != "" {
		config.S3RootUser = v
	}
	if v, ok := lookup("FLORIFY_S3_ROOT_PASSWORD"); ok && v != "" {
		config.S3RootPassword = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
