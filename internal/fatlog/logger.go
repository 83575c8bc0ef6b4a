// Package fatlog provides the structured logger used by the CLI. The
// core fat package and the FUSE adapter never log; logging is strictly
// a CLI concern.
package fatlog

import "go.uber.org/zap"

// New builds a SugaredLogger for CLI use: human-readable console output,
// debug level when verbose is set.
func New(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// Falling back to a no-op logger keeps the CLI usable even if
		// logger construction itself fails (e.g. an unwritable stderr).
		logger = zap.NewNop()
	}
	return logger.Sugar()
}
