package logger

import "go.uber.org/zap"

// New builds the process logger. env "local" gets the development
// console encoder; anything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
