package config

import "flag"

// parseFlags overlays command-line flags onto config.
//
//	-port string          HTTP listen port
//	-db-type string       postgres, pgx, mongodb or memory
//	-database-url string  database connection URL
//	-blob-backend string  s3 or memory
//	-session-ttl duration session lifetime
//	-log-level string     debug, info, warn or error
//	-log-file string      also write logs to this file
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.Port, "port", config.Port, "HTTP listen port")
	fs.StringVar(&config.DBType, "db-type", config.DBType, "database backend")
	fs.StringVar(&config.DatabaseURL, "database-url", config.DatabaseURL, "database connection URL")
	fs.StringVar(&config.BlobBackend, "blob-backend", config.BlobBackend, "blob storage backend")
	fs.DurationVar(&config.SessionTTL, "session-ttl", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "minimum log level")
	fs.StringVar(&config.LogFile, "log-file", config.LogFile, "log file path")

	return fs.Parse(args)
}
