package config

import (
	"encoding/json"
	"os"

	"github.com/florify/florify/internal/flagx"
	"github.com/florify/florify/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// both "5s" strings and integer nanoseconds. Zero values leave the current
// setting untouched.
type JsonConfig struct {
	HTTPAddr       string         `json:"http_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	QueryTimeout   timex.Duration `json:"query_timeout"`
	BcryptCost     int            `json:"bcrypt_cost"`
	AllowedOrigins []string       `json:"allowed_origins"`
	LogLevel       string         `json:"log_level"`
	LogFormat      string         `json:"log_format"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PhotoURLTTL    timex.Duration `json:"photo_url_ttl"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable or malformed file panics: the server cannot start with a
// half-applied configuration.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.QueryTimeout.Duration > 0 {
		config.QueryTimeout = c.QueryTimeout.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.PhotoURLTTL.Duration > 0 {
		config.PhotoURLTTL = c.PhotoURLTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
