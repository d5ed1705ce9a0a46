// Package logging provides structured logging for the sqlight CLI.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging configured from the logging section
// of the config file.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("opening database", "path", cfg.Database)
//	logger.Error("query failed", "error", err)
//
// Never log secrets or the contents of user data rows.
package logging
