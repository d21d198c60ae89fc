// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// Per-site configurations can carry authenticated request headers
// (Authorization, Cookie, API keys), and fetch logging would otherwise
// leak them. The SecureHandler masks attribute values whose keys or
// contents look sensitive before they reach the underlying handler,
// even in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request sent",
//	    "cookie", "session=abc123",  // masked in output
//	    "url", "https://example.com",
//	)
//
//	slog.SetDefault(logger)
package log
