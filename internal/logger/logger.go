package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init creates a global zap logger based on the running environment
// and replaces zap's globals with it, so callers use zap.L() directly.
func Init(environment string) error {
	var logger *zap.Logger
	var err error

	switch environment {
	case "production":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(logger)

	return nil
}
