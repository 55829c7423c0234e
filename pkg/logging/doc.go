// Package logging configures structured logging for the sesuite client and CLI.
//
// It wraps log/slog so every component logs the same way:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	client := sesuite.New(token, sesuite.WithLogger(logger))
//
// Library types accept a *slog.Logger through an option and fall back to
// Nop() when none is given, so importing the client never produces output
// on its own.
//
// Config.Files adds extra destinations; records are fanned out to every
// destination through MultiHandler. The CLI uses this for --log-file.
package logging
