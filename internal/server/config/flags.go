package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/florify/florify/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-t int      query timeout, seconds
//	-k int      bcrypt cost
//	-o string   comma-separated CORS origins
//	-l string   log level
//	-f string   log format (json|text)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      presigned photo URL lifetime, minutes
//
// Only these flags are looked at (see flagx.FilterArgs), so -c/-config and
// flags of other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-k", "-o", "-l", "-f", "-u", "-p", "-b", "-g", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	queryTimeout := fs.Int("t", int(config.QueryTimeout.Seconds()), "query timeout (in seconds)")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	photoTTL := fs.Int("x", int(config.PhotoURLTTL.Minutes()), "photo URL validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Duration and list flags are only written back when given, so values
	// from JSON or the environment keep their precision.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.QueryTimeout = time.Duration(*queryTimeout) * time.Second
		case "o":
			config.AllowedOrigins = splitList(*origins)
		case "x":
			config.PhotoURLTTL = time.Duration(*photoTTL) * time.Minute
		}
	})
}
